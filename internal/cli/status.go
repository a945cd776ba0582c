package cli

import (
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"algotrader/internal/markethours"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show market hours status",
		Long:  "Show whether NSE is currently within trading hours (09:15-15:30 IST, Monday to Friday).",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			now := time.Now()
			open := markethours.IsMarketOpen(now)

			if output.IsJSON() {
				payload := map[string]interface{}{
					"marketOpen": open,
					"status":     markethours.StatusText(now),
					"istTime":    now.In(markethours.IST).Format("15:04:05"),
				}
				if open {
					payload["closesIn"] = markethours.TimeUntilClose(now).Round(time.Second).String()
				} else {
					payload["nextOpen"] = markethours.NextOpen(now).Format(time.RFC3339)
				}
				output.JSON(payload)
				return
			}

			output.Printf("IST time: %s\n", now.In(markethours.IST).Format("02-Jan-2006 15:04:05"))
			if open {
				color.Green("%s", markethours.StatusString(now))
			} else {
				color.Red("Market Closed")
				output.Printf("Next open: %s\n", markethours.NextOpen(now).Format("02-Jan-2006 15:04 MST"))
			}
		},
	}
}
