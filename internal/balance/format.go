package balance

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
)

// WriteReport prints r as an aligned, human-readable summary.
func WriteReport(w io.Writer, r *Report, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	p, c := r.Progression, r.Combat
	lines := []struct{ k, v string }{
		{"Report", r.ID.String()},
		{"Preset", r.PresetID},
		{"Created", humanize.RelTime(r.CreatedAt, now, "ago", "from now")},
		{"Seed", fmt.Sprintf("%d", r.Seed)},
		{"Elapsed", r.Duration.Round(time.Millisecond).String()},
		{"Curve", fmt.Sprintf("%s, target level %d, %d xp per win", p.Curve, p.TargetLevel, p.XPPerWin)},
		{"Enemy", fmt.Sprintf("hp %d+%d/lvl, damage %s+%s/lvl x[%s, %s], bias %s, crit %s%% x%s",
			c.EnemyBaseHP, c.EnemyHPPerLevel,
			humanize.Ftoa(c.EnemyBaseDamage), humanize.Ftoa(c.EnemyDamagePerLevel),
			humanize.Ftoa(c.MinMultiplier), humanize.Ftoa(c.MaxMultiplier),
			humanize.Ftoa(c.DamageBias), humanize.FormatFloat("#.##", c.CritChance*100), humanize.Ftoa(c.CritMultiplier))},
		{"Runs", fmt.Sprintf("%s (%s completed, %s stalled)",
			humanize.Comma(int64(r.Runs)), humanize.Comma(int64(r.Completed)), humanize.Comma(int64(r.Stalled)))},
		{"Rounds", fmt.Sprintf("%s total, %s wins, %s losses",
			humanize.Comma(int64(r.TotalRounds)), humanize.Comma(int64(r.Wins)), humanize.Comma(int64(r.Losses)))},
		{"Rounds to target", fmt.Sprintf("min %d, avg %s, max %d",
			r.MinRounds, humanize.FormatFloat("#,###.##", r.AvgRounds), r.MaxRounds)},
		{"Win rate", fmt.Sprintf("%s%%", humanize.FormatFloat("#.##", r.WinRate*100))},
		{"Crit rate", fmt.Sprintf("%s%% of %s enemy attacks",
			humanize.FormatFloat("#.##", r.CritRate*100), humanize.Comma(int64(r.EnemyAttacks)))},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", l.k, l.v); err != nil {
			return err
		}
	}
	return tw.Flush()
}
