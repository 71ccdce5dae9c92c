package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trs/internal/history/service"
	id "trs/pkg/domain"
)

func newVerifyCommand(opts *options) *cobra.Command {
	var personArg string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Re-derive change sets and check event sequencing for a person",
		RunE: func(cmd *cobra.Command, _ []string) error {
			personID, err := id.ParsePersonID(personArg)
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
			findings := service.Verify(envs)
			out := cmd.OutOrStdout()
			for _, f := range findings {
				fmt.Fprintln(out, f.String())
			}
			if len(findings) > 0 {
				return fmt.Errorf("%d problem(s) in %d event(s) for person %s", len(findings), len(envs), personID)
			}
			fmt.Fprintf(out, "ok: %d event(s) for person %s\n", len(envs), personID)
			return nil
		},
	}
	cmd.Flags().StringVar(&personArg, "person", "", "person id")
	_ = cmd.MarkFlagRequired("person")
	return cmd
}
