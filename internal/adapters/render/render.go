// Package render prints the listing board and hero status tables to a
// terminal.
package render

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/okian/tavern/internal/domain/catalog"
	"github.com/okian/tavern/internal/domain/model"
	"github.com/okian/tavern/internal/domain/stamina"
)

// ANSI sequences.
const (
	clearScreen = "\x1b[H\x1b[2J"
	reset       = "\x1b[0m"
	underline   = "\x1b[4m"
	green       = "\x1b[32m"
	darkOrchid  = "\x1b[38;5;128m"
)

var rarityColors = map[catalog.Rarity]string{
	catalog.Common:    "\x1b[37m",
	catalog.Uncommon:  green,
	catalog.Rare:      "\x1b[34m",
	catalog.Legendary: "\x1b[38;5;208m",
	catalog.Mythic:    "\x1b[35m",
}

// Renderer writes tables to out. It is not safe for concurrent use.
type Renderer struct {
	out   io.Writer
	color bool
	clear bool
	now   func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithColor enables ANSI colors.
func WithColor(on bool) Option {
	return func(r *Renderer) { r.color = on }
}

// WithClearScreen clears the terminal before each frame.
func WithClearScreen(on bool) Option {
	return func(r *Renderer) { r.clear = on }
}

// WithClock overrides the time source used for ages and the refresh stamp.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// New returns a Renderer writing to out.
func New(out io.Writer, opts ...Option) *Renderer {
	r := &Renderer{out: out, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// table collects tab-separated rows with an optional color per row and
// aligns them before coloring, so escape codes never count toward widths.
type table struct {
	buf    bytes.Buffer
	tw     *tabwriter.Writer
	colors []string
}

func newTable(header ...string) *table {
	t := &table{}
	t.tw = tabwriter.NewWriter(&t.buf, 0, 0, 1, ' ', 0)
	t.row(underline, header...)
	return t
}

func (t *table) row(color string, cells ...string) {
	fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
	t.colors = append(t.colors, color)
}

func (t *table) writeTo(w io.Writer, colored bool) error {
	if err := t.tw.Flush(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	sc := bufio.NewScanner(&t.buf)
	for i := 0; sc.Scan(); i++ {
		line := strings.TrimRight(sc.Text(), " ")
		if colored && i < len(t.colors) && t.colors[i] != "" {
			line = t.colors[i] + line + reset
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Frame redraws the whole screen: the listing board, then the hero tables
// when statuses is non-nil.
func (r *Renderer) Frame(listings []model.Listing, statuses []stamina.Status) error {
	if r.clear {
		if _, err := io.WriteString(r.out, clearScreen); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(r.out, "Last Refresh: %s\n", r.now().Format(time.DateTime)); err != nil {
		return err
	}
	if err := r.Listings(listings); err != nil {
		return err
	}
	if statuses == nil {
		return nil
	}
	if _, err := io.WriteString(r.out, "\n"); err != nil {
		return err
	}
	return r.Heroes(statuses)
}

// Listings renders one board of listings.
func (r *Renderer) Listings(listings []model.Listing) error {
	t := newTable("saleId", "heroId", "time", "class", "sub", "gen", "rare", "price", "prof", "level", "summons",
		"str", "agi", "end", "wis", "dex", "vit", "int", "lck", "profScore", "prof/unit", "combat", "combat/unit")

	now := r.now()
	for _, l := range listings {
		sale := l.SaleID
		if l.New {
			sale += "*"
		}
		cells := []string{
			sale,
			l.HeroID,
			Age(l.StartedAt, now),
			string(l.Hero.MainClass),
			string(l.Hero.SubClass),
			fmt.Sprint(l.Generation),
			fmt.Sprint(int(l.Hero.Rarity)),
			l.PriceUnits().Round(3).String(),
			fmt.Sprintf("%s (%g)", l.Hero.Profession, l.ProfessionPoints.Level(l.Hero.Profession)),
			fmt.Sprint(l.Hero.Level),
			fmt.Sprintf("%d/%d", l.Summons, l.MaxSummons),
		}
		for _, st := range catalog.Stats() {
			cells = append(cells, statCell(l, st))
		}
		cells = append(cells, scoreCells(l.Scores)...)
		t.row(rarityColors[l.Hero.Rarity], cells...)
	}
	return t.writeTo(r.out, r.color)
}

func statCell(l model.Listing, st catalog.Stat) string {
	s := fmt.Sprint(l.Hero.Stats[st])
	if l.StatBoost1 == st {
		s += "+"
	}
	if l.StatBoost2 == st {
		s += "%"
	}
	return s
}

func scoreCells(s *model.ListingScores) []string {
	if s == nil {
		return []string{"-", "-", "-", "-"}
	}
	return []string{
		fmt.Sprint(s.Profession),
		ratio(s.ProfessionPerUnitPrice),
		fmt.Sprintf("%.1f", s.Combat.Average),
		ratio(s.CombatAveragePerUnitPrice),
	}
}

func ratio(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

// Heroes renders the questing and regenerating tables.
func (r *Renderer) Heroes(statuses []stamina.Status) error {
	if _, err := io.WriteString(r.out, "QUESTING...\n"); err != nil {
		return err
	}

	q := newTable("heroId", "maxProfession", "stamina", "timeLeft", "readyForPickup")
	for _, s := range statuses {
		if s.Quest == nil {
			continue
		}
		ready, color := "", ""
		if s.Quest.Completed {
			ready, color = "Y", green
		}
		q.row(color, s.HeroID, string(s.MaxProfession), staminaCell(s), Duration(s.Quest.TimeLeft), ready)
	}
	if err := q.writeTo(r.out, r.color); err != nil {
		return err
	}

	if _, err := io.WriteString(r.out, "\nREGENERATING...\n"); err != nil {
		return err
	}
	g := newTable("heroId", "maxProfession", "stamina", "~timeToMaxProf", "timeToFull", "readyForMaxProf", "regenerated")
	for _, s := range statuses {
		if s.Regen == nil {
			continue
		}
		color := ""
		switch {
		case s.Regen.Regenerated:
			color = darkOrchid
		case s.Regen.Ready:
			color = green
		}
		g.row(color, s.HeroID, string(s.MaxProfession), staminaCell(s),
			Duration(s.Regen.TimeToMaxProfession), Duration(s.TimeToFull),
			yes(s.Regen.Ready), yes(s.Regen.Regenerated))
	}
	return g.writeTo(r.out, r.color)
}

func staminaCell(s stamina.Status) string {
	return fmt.Sprintf("%d/%d", s.CurrentStamina, s.TotalStamina)
}

func yes(b bool) string {
	if b {
		return "Y"
	}
	return ""
}

// Duration formats d as H:MM:SS, with a leading minus when negative.
func Duration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign, d = "-", -d
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%s%d:%02d:%02d", sign, secs/3600, secs/60%60, secs%60)
}

// Age describes how long ago t was, abbreviating minutes and seconds.
func Age(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	s := humanize.RelTime(t, now, "ago", "from now")
	return strings.NewReplacer("minutes", "min", "seconds", "sec").Replace(s)
}
