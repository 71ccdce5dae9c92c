package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"trs/internal/history/events"
	"trs/internal/history/service"
)

const maxDocumentSize = 4 << 20

func newImportCommand(opts *options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Record event documents from a JSON lines file in one transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var in io.Reader = cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			envs, err := readDocuments(in)
			if err != nil {
				return err
			}

			s, err := opts.open(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.close()

			rec := service.NewRecorder(s.events, service.WithTxRunner(s.runner), service.WithRecorderLogger(s.log))
			err = rec.RunInTx(ctx, func(ctx context.Context) error {
				for i, env := range envs {
					if _, err := rec.Record(ctx, env); err != nil {
						return fmt.Errorf("line %d: %w", i+1, err)
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d event(s)\n", len(envs))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "JSON lines file of event documents, - for stdin")
	return cmd
}

// readDocuments decodes one event document per non-empty line. Unknown kinds
// are rejected here because they could never be re-read as anything else.
func readDocuments(r io.Reader) ([]events.Envelope, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxDocumentSize)
	var out []events.Envelope
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		env, err := events.Unmarshal(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if unknown, ok := env.Payload.(events.UnknownPayload); ok {
			return nil, fmt.Errorf("line %d: cannot import %s: %v", line, unknown.RawKind, unknown.Err)
		}
		out = append(out, env)
	}
	return out, scanner.Err()
}
