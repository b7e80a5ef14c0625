package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"plannerd/internal/planner"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	tasksRulesID string
	tasksFile    string
	tasksStrict  bool
	tasksTable   bool
)

// errNotJSON is returned under --strict when the model ignored the JSON contract.
var errNotJSON = errors.New("model response is not valid JSON")

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Break an RFC into a JSON task list",
	Long: `Reads an RFC from --file (or stdin) and asks Gemini for a JSON array of
tasks with name, description and priority.

A response that is not valid JSON is printed as-is; --strict turns that
into a failure.

Example:
  plannerd rfc add dark mode > rfc.md
  plannerd tasks --file rfc.md --table`,
	Args: cobra.NoArgs,
	RunE: runTasks,
}

func init() {
	tasksCmd.Flags().StringVar(&tasksRulesID, "rules-id", planner.DefaultRulesID, "Rules document to apply")
	tasksCmd.Flags().StringVarP(&tasksFile, "file", "f", "-", "RFC file to read (- for stdin)")
	tasksCmd.Flags().BoolVar(&tasksStrict, "strict", false, "Fail when the response is not valid JSON")
	tasksCmd.Flags().BoolVar(&tasksTable, "table", false, "Render tasks as a table")
}

func runTasks(cmd *cobra.Command, args []string) error {
	rfc, err := readRFC(cmd)
	if err != nil {
		return err
	}
	if strings.TrimSpace(rfc) == "" {
		return fmt.Errorf("empty RFC input")
	}

	ctx := commandContext(cmd)
	svc, _, err := buildService(ctx)
	if err != nil {
		return err
	}

	res, err := svc.GenerateTasks(ctx, rfc, tasksRulesID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !res.ValidJSON {
		fmt.Fprintln(out, res.Text)
		if tasksStrict {
			return errNotJSON
		}
		return nil
	}

	if tasksTable {
		tasks, err := planner.DecodeTasks(res.Text)
		if err != nil {
			// Valid JSON, but not a task array.
			logger.Warn("cannot render table: " + err.Error())
		} else {
			fmt.Fprintln(out, renderTaskTable(tasks))
			return nil
		}
	}
	fmt.Fprintln(out, res.Text)
	return nil
}

func readRFC(cmd *cobra.Command) (string, error) {
	if tasksFile == "" || tasksFile == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read RFC from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(tasksFile)
	if err != nil {
		return "", fmt.Errorf("read RFC: %w", err)
	}
	return string(data), nil
}

var priorityStyles = map[planner.Priority]lipgloss.Style{
	planner.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	planner.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	planner.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
}

func renderTaskTable(tasks []planner.Task) string {
	rows := make([][]string, 0, len(tasks))
	for i, t := range tasks {
		rows = append(rows, []string{strconv.Itoa(i + 1), t.Name, string(t.Priority), t.Description})
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "TASK", "PRIORITY", "DESCRIPTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 && row >= 0 && row < len(tasks) {
				if s, ok := priorityStyles[tasks[row].Priority]; ok {
					return s.Padding(0, 1)
				}
			}
			return cellStyle
		}).
		String()
}
