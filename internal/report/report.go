// Package report renders a planned solution as the console listing the
// one-shot planner prints.
package report

import (
	"fmt"
	"io"
	"strings"

	"airhaul/internal/model"
)

// Render formats one block per aircraft with its stop sequence and running
// onboard load, followed by the fleet totals.
func Render(sol model.Solution) string {
	var b strings.Builder
	for _, route := range sol.Routes {
		fmt.Fprintf(&b, "Route for aircraft %d:\n", route.Vehicle)
		for i, stop := range route.Stops {
			if i > 0 {
				b.WriteString(" -> ")
			}
			fmt.Fprintf(&b, " %s Load(%d)", stop.Ident, stop.Load)
		}
		fmt.Fprintf(&b, "\nDistance of the route: %dnm\n", route.DistanceNM)
		fmt.Fprintf(&b, "Load of the route: %d\n\n", route.Load)
	}
	fmt.Fprintf(&b, "Total Distance of all routes: %dnm\n", sol.TotalDistanceNM)
	fmt.Fprintf(&b, "Total load of all routes: %d\n", sol.TotalLoad)
	return b.String()
}

// Write renders the solution to w.
func Write(w io.Writer, sol model.Solution) error {
	_, err := io.WriteString(w, Render(sol))
	return err
}
