package main

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"trs/internal/history/timeline"
	"trs/internal/history/visibility"
	id "trs/pkg/domain"
	strutil "trs/pkg/platform/strings"
)

func newShowCommand(opts *options) *cobra.Command {
	var (
		personArg string
		roles     []string
		timeZone  string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a person's rendered timeline as seen with the given roles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			personID, err := id.ParsePersonID(personArg)
			if err != nil {
				return err
			}
			loc, err := timeline.LoadLocation(timeZone)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := opts.open(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.close()

			envs, err := s.events.LoadAllForPerson(ctx, personID)
			if err != nil {
				return err
			}
			roles = strutil.DedupeAndTrim(roles)
			caps := visibility.CapabilitiesForRoles(roles)
			items := timeline.NewBuilder(s.ref, timeline.WithLogger(s.log), timeline.WithLocation(loc)).
				Build(ctx, personID, envs)
			visible, hidden := visibility.Filter(items, caps)
			slices.Reverse(visible)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(visible)
			}
			for _, item := range visible {
				fmt.Fprintf(out, "%s\n  %s by %s\n", item.Heading, item.Timestamp, item.RaisedBy)
				for _, f := range item.Fields {
					if f.Previous != nil {
						fmt.Fprintf(out, "  %s: %s (was %s)\n", f.Label, f.Value, *f.Previous)
						continue
					}
					fmt.Fprintf(out, "  %s: %s\n", f.Label, f.Value)
				}
			}
			if hidden > 0 {
				fmt.Fprintf(out, "%d item(s) hidden for roles [%s]\n", hidden, strings.Join(roles, ", "))
			}
			if visibility.HasHiddenOpenAlerts(envs, caps, s.ref) {
				fmt.Fprintln(out, "this record has open alerts you cannot see")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&personArg, "person", "", "person id")
	cmd.Flags().StringSliceVar(&roles, "roles", []string{visibility.RoleAdministrator}, "roles to render as")
	cmd.Flags().StringVar(&timeZone, "time-zone", timeline.DefaultTimeZone, "display time zone")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print items as JSON")
	_ = cmd.MarkFlagRequired("person")
	return cmd
}
