package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/username/multicalendar/internal/calendar"
	"github.com/username/multicalendar/internal/session"
	"github.com/username/multicalendar/pkg/dateutil"
	"go.uber.org/zap"
)

// splitSystem splits "Persian/Iran" into system and variant.
func splitSystem(s string) (string, string) {
	name, variant, _ := strings.Cut(s, "/")
	return strings.TrimSpace(name), strings.TrimSpace(variant)
}

// parsePoint reads an absolute index or a Y-M-D date of the active system.
func parsePoint(nav calendar.Navigator, s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	y, m, d, err := dateutil.ParseYMD(s)
	if err != nil {
		return 0, err
	}
	active := nav.Active()
	active.Save()
	if err := active.MoveToDate(y, m, d); err != nil {
		_ = active.Restore()
		return 0, err
	}
	index := active.Index()
	if err := active.Restore(); err != nil {
		return 0, err
	}
	return index, nil
}

// update runs fn on the current session, saves it and prints the result.
func update(cmd *cobra.Command, fn func(nav calendar.Navigator) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	return a.manager.Update(cmd.Context(), sessionID, func(nav calendar.Navigator) error {
		if err := fn(nav); err != nil {
			return err
		}
		printNavigator(cmd.OutOrStdout(), nav)
		return nil
	})
}

// view runs fn on the current session without saving.
func view(cmd *cobra.Command, fn func(nav calendar.Navigator) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	return a.manager.View(cmd.Context(), sessionID, fn)
}

func initCmd() *cobra.Command {
	var system string
	var selected string
	var generateID bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a session positioned on today",
		RunE: func(cmd *cobra.Command, args []string) error {
			id := sessionID
			if generateID {
				id = uuid.New().String()
			}

			state := &session.State{ID: id}
			if system != "" {
				state.Kind = session.KindSingle
				state.System, state.Variant = splitSystem(system)
			} else {
				state.Kind = session.KindMulti
				state.Variant = cfg.Calendar.Variant
				for _, m := range cfg.Calendar.Members {
					state.Members = append(state.Members, session.MemberState{
						Name:    m.Name,
						Variant: m.Variant,
						Formal:  m.Formal,
					})
				}
				state.Selected = cfg.Calendar.Selected
				if selected != "" {
					state.Selected = selected
				}
			}
			if cfg.Calendar.WeekStart >= 0 {
				ws := cfg.Calendar.WeekStart
				state.WeekStart = &ws
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			nav, err := a.manager.Create(cmd.Context(), state)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session %s\n", id)
			printNavigator(out, nav)
			return nil
		},
	}

	cmd.Flags().StringVar(&system, "system", "", "Single calendar system, e.g. Persian/2820 (default: members from config)")
	cmd.Flags().StringVar(&selected, "select", "", "Member that drives navigation")
	cmd.Flags().BoolVar(&generateID, "generate-id", false, "Use a random session id instead of --session")

	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current date in every member system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return view(cmd, func(nav calendar.Navigator) error {
				printNavigator(cmd.OutOrStdout(), nav)
				return nil
			})
		},
	}
}

func moveCmd() *cobra.Command {
	var minimal bool

	cmd := &cobra.Command{
		Use:     "move N [UNIT]",
		Short:   "Move by N days, months or years",
		Example: "  multicalendar move 3 months\n  multicalendar move --minimal -- -1 year",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid count %q: %w", args[0], err)
			}
			field := calendar.FieldDay
			if len(args) == 2 {
				if field, err = calendar.ParseField(args[1]); err != nil {
					return err
				}
			}
			return update(cmd, func(nav calendar.Navigator) error {
				return nav.Move(n, field, minimal)
			})
		},
	}

	cmd.Flags().BoolVar(&minimal, "minimal", false, "Snap to the first or last day of the target month or year")

	return cmd
}

func gotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goto Y-M-D|INDEX",
		Short: "Move to a date of the selected system or an absolute day index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if n, err := strconv.Atoi(args[0]); err == nil {
				return update(cmd, func(nav calendar.Navigator) error {
					return nav.MoveTo(n, calendar.FieldIndex)
				})
			}
			y, m, d, err := dateutil.ParseYMD(args[0])
			if err != nil {
				return err
			}
			return update(cmd, func(nav calendar.Navigator) error {
				return nav.MoveToDate(y, m, d)
			})
		},
	}
}

func todayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Move to today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return update(cmd, func(nav calendar.Navigator) error {
				nav.MoveToday()
				return nil
			})
		},
	}
}

func selectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select NAME",
		Short: "Make a member system drive navigation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return update(cmd, func(nav calendar.Navigator) error {
				return calendar.Dispatch(nav, "select", args[0])
			})
		},
	}
}

func execCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "exec OP[:PARAM]...",
		Short: "Run named operations in order; the session is saved only if all succeed",
		Long: "Run named operations in order. Operations: " + strings.Join(calendar.Operations(), ", ") +
			".\nWith --all each operation is applied to every member separately.",
		Example: "  multicalendar exec save move:1y move_to:0 restore",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return update(cmd, func(nav calendar.Navigator) error {
				for _, arg := range args {
					op, param, _ := strings.Cut(arg, ":")
					if !all {
						if err := calendar.Dispatch(nav, op, param); err != nil {
							return fmt.Errorf("%s: %w", op, err)
						}
						continue
					}

					multi, ok := nav.(*calendar.Multi)
					if !ok {
						return fmt.Errorf("--all needs a multi-calendar session")
					}
					results, err := multi.ApplyToAll(calendar.SelectedFirst, op, param)
					if err != nil {
						return err
					}
					for _, r := range results {
						if r.Err != nil {
							logger.Warn("Operation failed on member",
								zap.String("op", op),
								zap.String("member", r.Member),
								zap.Error(r.Err))
							return fmt.Errorf("%s on %s: %w", op, r.Member, r.Err)
						}
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Apply to every member")

	return cmd
}

func rangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "range FIELD FROM TO",
		Short: "List the distinct values of a field between two dates or indices",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := calendar.ParseField(args[0])
			if err != nil {
				return err
			}
			return view(cmd, func(nav calendar.Navigator) error {
				from, err := parsePoint(nav, args[1])
				if err != nil {
					return err
				}
				to, err := parsePoint(nav, args[2])
				if err != nil {
					return err
				}
				entries, err := nav.Active().Range(field, from, to)
				if err != nil {
					return err
				}
				printRange(cmd.OutOrStdout(), nav.Active().Spec(), field, entries)
				return nil
			})
		},
	}
}

func monthCmd() *cobra.Command {
	var fit bool

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Print the month grid of the selected system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("fit") {
				fit = cfg.Calendar.FitRows
			}
			return view(cmd, func(nav calendar.Navigator) error {
				mv, err := calendar.NewMonthView(nav, calendar.MonthOptions{FitRows: fit})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if multi, ok := nav.(*calendar.Multi); ok {
					spans, err := multi.MonthSpans()
					if err != nil {
						return err
					}
					printSpans(out, spans)
				}
				printMonth(out, mv)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&fit, "fit", true, "End the grid after the month's last week")

	return cmd
}

func leapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leap SYSTEM[/VARIANT] YEAR...",
		Short: "Report leap years and year lengths",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := calendar.NewRegistry()
			if err := calendar.LoadHolidayFiles(registry, cfg.Calendar.HolidayFiles, logger); err != nil {
				return err
			}
			name, variant := splitSystem(args[0])
			spec, err := registry.Lookup(name, variant)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, arg := range args[1:] {
				year, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid year %q: %w", arg, err)
				}
				kind := "common"
				if spec.IsLeapYear(year) {
					kind = "leap"
				}
				fmt.Fprintf(out, "%s %d: %s, %d days\n", spec.Name(), year, kind, spec.YearLength(year))
			}
			return nil
		},
	}
}

func systemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "systems",
		Short: "List registered calendar systems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := calendar.NewRegistry()
			if err := calendar.LoadHolidayFiles(registry, cfg.Calendar.HolidayFiles, logger); err != nil {
				return err
			}
			printSystems(cmd.OutOrStdout(), registry.Specs())
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ids, err := a.manager.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.manager.Delete(cmd.Context(), sessionID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s deleted\n", sessionID)
			return nil
		},
	}
}
