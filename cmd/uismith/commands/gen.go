package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uismith/uismith/pkg/cli"
	"github.com/uismith/uismith/pkg/forge"
	"github.com/uismith/uismith/pkg/kv"
	"github.com/uismith/uismith/pkg/llm"
	"github.com/uismith/uismith/pkg/session"
)

var genFlags struct {
	models []string
	outDir string
}

var genCmd = &cobra.Command{
	Use:   "gen [flags] <prompt>",
	Short: "Generate an interface once and write it to disk",
	Long: `Run one generation round for the given prompt and write each model's
result as a self-contained HTML file under the output directory.

The file name is derived from the model reference, e.g. the result of
openai/gpt-4o lands in openai-gpt-4o.html.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mux, routes, err := loadProviders()
		if err != nil {
			return err
		}
		models := genFlags.models
		if len(models) == 0 {
			return fmt.Errorf("no models selected; configured routes: %s", strings.Join(routes, ", "))
		}

		sessions := session.NewStore(kv.NewMemory())
		sid := session.NewID()
		o := &forge.Orchestrator{Gen: mux, Sessions: sessions}
		events, err := o.Generate(cmd.Context(), &forge.Request{
			SessionID: sid,
			Models:    models,
			History:   []llm.Turn{{Role: llm.RoleUser, Content: strings.Join(args, " ")}},
		})
		if err != nil {
			return err
		}

		styles := cli.NewStyles(cli.DefaultTheme)
		var failed int
		progress := map[string]int{}
		for {
			ev, err := events.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			switch ev.Type {
			case forge.EventChunk:
				progress[ev.Model] += len(ev.Delta)
				fmt.Fprintf(os.Stderr, "\r%s", styles.StageLine(ev.Model, string(ev.Stage), progress[ev.Model]))
			case forge.EventError:
				failed++
				fmt.Fprintf(os.Stderr, "\r%s\n", styles.ErrorLine(ev.Model, ev.Error))
			case forge.EventModelDone:
				fmt.Fprintf(os.Stderr, "\r%s\n", styles.StageLine(ev.Model, "done", progress[ev.Model]))
			}
		}

		arts, err := sessions.All(context.Background(), sid)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(genFlags.outDir, 0o755); err != nil {
			return err
		}
		for model, art := range arts {
			path := filepath.Join(genFlags.outDir, artifactFileName(model))
			if err := os.WriteFile(path, []byte(renderPage(model, art)), 0o644); err != nil {
				return err
			}
			fmt.Println(styles.Dim.Render("wrote " + path))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d models failed", failed, len(models))
		}
		return nil
	},
}

func artifactFileName(model string) string {
	return strings.NewReplacer("/", "-", ":", "-").Replace(model) + ".html"
}

// renderPage assembles a model's artifact into a standalone HTML page.
func renderPage(model string, a *session.Artifact) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", model)
	if a.Styling != "" {
		fmt.Fprintf(&b, "<style>\n%s\n</style>\n", a.Styling)
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(a.Markup)
	if a.Behavior != "" {
		fmt.Fprintf(&b, "\n<script>\n%s\n</script>\n", a.Behavior)
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func init() {
	genCmd.Flags().StringArrayVarP(&genFlags.models, "model", "m", nil, "model reference to run (repeatable)")
	genCmd.Flags().StringVarP(&genFlags.outDir, "out", "o", ".", "output directory")
	rootCmd.AddCommand(genCmd)
}
