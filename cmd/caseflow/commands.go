package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-caseflow/internal/store"
	"github.com/goliatone/go-caseflow/pkg/caserecord"
	"github.com/goliatone/go-caseflow/pkg/engine"
	"github.com/goliatone/go-caseflow/pkg/openapi"
	"github.com/goliatone/go-caseflow/pkg/render"
	"github.com/goliatone/go-caseflow/pkg/renderers/tui"
	"github.com/goliatone/go-caseflow/pkg/wizard"
)

var errRejected = errors.New("submission rejected")

func newCmd() *cobra.Command {
	var respondents []string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a case",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				c, err := a.create(ctx, respondents)
				if err != nil {
					return err
				}
				logger.Info("case created", "case", c.ID, "respondents", len(c.Respondents))
				fmt.Fprintln(cmd.OutOrStdout(), c.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&respondents, "respondent", nil, "respondent name (repeatable)")
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cases",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				rows, err := a.store.List(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), rows)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(cmd.OutOrStdout())
				tw.AppendHeader(table.Row{"ID", "State", "Updated"})
				for _, row := range rows {
					tw.AppendRow(table.Row{row.ID, row.State, row.UpdatedAt})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func screensCmd() *cobra.Command {
	var hub string
	cmd := &cobra.Command{
		Use:   "screens",
		Short: "List configured screens",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromViper()
			a, err := newApp(cfg, store.NewMemory())
			if err != nil {
				return err
			}
			a.writeScreens(cmd.OutOrStdout(), hub)
			return nil
		},
	}
	cmd.Flags().StringVar(&hub, "hub", "", "only screens of this hub")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <case>",
		Short: "Show the task lists of a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				c, err := a.load(ctx, args[0])
				if err != nil {
					return err
				}
				return a.writeStatus(cmd.OutOrStdout(), c)
			})
		},
	}
}

func fillCmd() *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "fill <case> <screen>",
		Short: "Answer a screen interactively",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				c, err := a.load(ctx, args[0])
				if err != nil {
					return err
				}
				prompter := tui.New(tui.WithLocalizer(a.loc), tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())))
				return a.fill(ctx, cmd.OutOrStdout(), prompter, c, args[1], follow)
			})
		},
	}
	cmd.Flags().BoolVar(&follow, "follow", true, "continue with the next screen after an accepted answer")
	return cmd
}

func submitJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit-json <case> <screen> <file>",
		Short: "Submit a screen from a JSON object (use - for stdin)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd.InOrStdin(), args[2])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				c, err := a.load(ctx, args[0])
				if err != nil {
					return err
				}
				return a.submit(ctx, cmd.OutOrStdout(), c, args[1], payload, viper.GetBool("json"))
			})
		},
	}
}

func respondentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-respondent <case> <name>",
		Short: "Add a respondent to a case and select it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				c, err := a.load(ctx, args[0])
				if err != nil {
					return err
				}
				idx := c.AddRespondent(args[1])
				if err := c.Select(idx); err != nil {
					return err
				}
				if err := a.store.Save(ctx, c); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "respondent %d: %s\n", idx, args[1])
				return nil
			})
		},
	}
}

func selectRespondentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select-respondent <case> <index>",
		Short: "Choose which respondent respondent screens write to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid respondent index %q", args[1])
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				c, err := a.load(ctx, args[0])
				if err != nil {
					return err
				}
				if err := c.Select(idx); err != nil {
					return err
				}
				return a.store.Save(ctx, c)
			})
		},
	}
}

func openapiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "openapi <file> <operation>",
		Short: "Show the form generated from an OpenAPI request body",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openapi.LoadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			form, err := doc.Form(args[1])
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(cmd.OutOrStdout(), form)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"Field", "Kind", "Rules", "Options"})
			for _, f := range form.Fields {
				tw.AppendRow(table.Row{f.ID, f.Kind, f.Rules, f.OptionValues()})
			}
			tw.Render()
			return nil
		},
	}
}

func (a *app) create(ctx context.Context, respondents []string) (*caserecord.Case, error) {
	c := a.wizard.Start(store.NewID())
	for _, name := range respondents {
		c.AddRespondent(name)
	}
	if err := a.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (a *app) writeScreens(w io.Writer, hub string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Screen", "Hub", "Section", "On success", "Next"})
	for _, id := range a.screens.IDs() {
		s, _ := a.screens.Get(id)
		if hub != "" && s.Hub != hub {
			continue
		}
		next := s.Next
		if s.Submit {
			next = "(submit)"
		}
		tw.AppendRow(table.Row{s.ID, s.Hub, s.Section, s.OnSuccess, next})
	}
	tw.Render()
}

func (a *app) writeStatus(w io.Writer, c *caserecord.Case) error {
	fmt.Fprintf(w, "Case %s (%s)\n", c.ID, c.State)
	for _, hubID := range a.hubs.IDs() {
		tasks, err := a.wizard.Tasks(c, hubID)
		if err != nil {
			return err
		}
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.SetTitle(render.SectionLabel(hubID, hubID, a.loc))
		tw.AppendHeader(table.Row{"Section", "Status", "Screen"})
		for _, t := range tasks {
			tw.AppendRow(table.Row{
				render.SectionLabel(hubID, t.Section, a.loc),
				render.StatusLabel(t.Status, a.loc),
				t.Screen,
			})
		}
		tw.Render()
	}
	return nil
}

// submit runs one non-interactive submission and reports the outcome.
func (a *app) submit(ctx context.Context, w io.Writer, c *caserecord.Case, screenID string, payload engine.Payload, asJSON bool) error {
	out, err := a.wizard.Submit(ctx, c, screenID, payload)
	if err != nil {
		return err
	}
	if asJSON {
		if err := printJSON(w, outcomeJSON(out, a.loc)); err != nil {
			return err
		}
	} else if out.Accepted() {
		fmt.Fprintf(w, "%s saved\n", screenID)
		if out.Next != "" {
			fmt.Fprintf(w, "next: %s\n", out.Next)
		}
	} else {
		for _, msg := range render.ErrorSummary(out.Errors, a.loc) {
			fmt.Fprintf(w, "%s: %s\n", msg.FieldID, msg.Message)
		}
	}
	if !out.Accepted() {
		logger.Warn("submission rejected", "case", c.ID, "screen", screenID, "errors", len(out.Errors))
		return errRejected
	}
	logger.Info("submission accepted", "case", c.ID, "screen", screenID, "state", c.State)
	return nil
}

// fill prompts screenID until it is accepted, then follows Next screens when
// follow is set.
func (a *app) fill(ctx context.Context, w io.Writer, prompter *tui.Renderer, c *caserecord.Case, screenID string, follow bool) error {
	for screenID != "" {
		screen, err := a.wizard.Screen(screenID)
		if err != nil {
			return err
		}
		reader := c.Reader(screen.Form.Scope)
		state := render.Prefill(screen.Form, reader, render.CaseIDField(c.ID))
		for {
			payload, err := prompter.Prompt(ctx, screen.Form, state, reader)
			if err != nil {
				return err
			}
			out, err := a.wizard.Submit(ctx, c, screen.ID, payload)
			if err != nil {
				return err
			}
			if out.Accepted() {
				fmt.Fprintf(w, "%s saved\n", screen.ID)
				screenID = out.Next
				break
			}
			state = render.NewScreenState(screen.Form, out.Raw, out.Errors, a.loc, render.CaseIDField(c.ID))
		}
		if !follow {
			return nil
		}
	}
	return nil
}

type outcomeView struct {
	Screen   string            `json:"screen"`
	Accepted bool              `json:"accepted"`
	Update   map[string]any    `json:"update,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
	Next     string            `json:"next,omitempty"`
	Statuses map[string]string `json:"statuses,omitempty"`
}

func outcomeJSON(out wizard.Outcome, loc render.Localizer) outcomeView {
	view := outcomeView{
		Screen:   out.Screen.ID,
		Accepted: out.Accepted(),
		Update:   out.Update,
		Next:     out.Next,
	}
	if !out.Accepted() {
		view.Errors = render.ErrorMessages(out.Errors, loc)
	}
	if len(out.Statuses) > 0 {
		view.Statuses = make(map[string]string, len(out.Statuses))
		for section, s := range out.Statuses {
			view.Statuses[section] = string(s)
		}
	}
	return view
}

func readPayload(stdin io.Reader, path string) (engine.Payload, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	var payload engine.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return payload, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
