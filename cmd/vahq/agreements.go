package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vahq/internal/app"
	"vahq/internal/model"
	"vahq/internal/structure"
	"vahq/internal/templatefile"
)

const timeFormat = "2006-01-02 15:04:05"

// template command
var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage agreement templates",
}

var templateImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a template from a YAML or JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ImportTemplate", args)
		if err != nil {
			return err
		}
		defer a.Close()

		tmpl, err := a.ImportTemplate(args[0])
		if err != nil {
			return fmt.Errorf("importing template: %w", err)
		}
		fmt.Printf("Imported template %s (%s)\n", tmpl.ID, tmpl.Title)
		return nil
	},
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ListTemplates", args)
		if err != nil {
			return err
		}
		defer a.Close()

		templates, err := a.ListTemplates()
		if err != nil {
			return err
		}
		if len(templates) == 0 {
			fmt.Println("No templates.")
			return nil
		}
		for _, t := range templates {
			fmt.Printf("%-36s  %-16s  %-30s  %s\n", t.ID, t.Category, t.Title, t.UpdatedAt.Local().Format(timeFormat))
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show TEMPLATE",
	Short: "Show a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		guidance, _ := cmd.Flags().GetBool("guidance-html")
		format, _ := cmd.Flags().GetString("format")

		a, err := newApp(cmd, "GetTemplate", args)
		if err != nil {
			return err
		}
		defer a.Close()

		if guidance {
			html, err := a.GuidanceHTML(args[0])
			if err != nil {
				return err
			}
			fmt.Print(html)
			return nil
		}
		if format != "" {
			return a.ExportTemplate(args[0], templatefile.Format(format), os.Stdout)
		}

		t, err := a.GetTemplate(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s\n", t.ID, t.Title)
		if t.Category != "" {
			fmt.Printf("category: %s\n", t.Category)
		}
		if t.Description != "" {
			fmt.Println(t.Description)
		}
		for _, g := range t.Guidance {
			fmt.Printf("  guidance: %s\n", g.Heading)
		}
		fmt.Println()
		printStructure(os.Stdout, t.Defaults)
		return nil
	},
}

var templatePromoteCmd = &cobra.Command{
	Use:   "promote INSTANCE",
	Short: "Save an instance's structure as its template's defaults",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "PromoteInstance", args)
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.PromoteInstance(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Updated defaults of template %s\n", t.ID)
		return nil
	},
}

// deploy command
var deployCmd = &cobra.Command{
	Use:   "deploy TEMPLATE CLIENT",
	Short: "Create a draft agreement for a client",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Deploy", args)
		if err != nil {
			return err
		}
		defer a.Close()

		inst, err := a.Deploy(args[0], args[1])
		if err != nil {
			return fmt.Errorf("deploying: %w", err)
		}
		fmt.Printf("Deployed %s for %s\n", inst.ID, inst.ClientID)
		return nil
	},
}

// instance command
var instanceCmd = &cobra.Command{
	Use:   "instance",
	Short: "Inspect agreement instances",
}

var instanceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List instances",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _ := cmd.Flags().GetString("client")

		a, err := newApp(cmd, "ListInstances", args)
		if err != nil {
			return err
		}
		defer a.Close()

		instances, err := a.ListInstances(client)
		if err != nil {
			return err
		}
		if len(instances) == 0 {
			fmt.Println("No instances.")
			return nil
		}
		for _, inst := range instances {
			fmt.Printf("%-36s  %-20s  %-17s  v%-3d  %s\n",
				inst.ID, inst.ClientID, inst.Status, inst.Version, inst.Title)
		}
		return nil
	},
}

var instanceShowCmd = &cobra.Command{
	Use:   "show INSTANCE",
	Short: "Show an instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clientView, _ := cmd.Flags().GetBool("client-view")

		a, err := newApp(cmd, "GetInstance", args)
		if err != nil {
			return err
		}
		defer a.Close()

		inst, err := a.GetInstance(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s\n", inst.ID, inst.Title)
		fmt.Printf("client: %s  status: %s  version: %d  template: %s\n\n",
			inst.ClientID, inst.Status, inst.Version, inst.TemplateID)

		s := inst.Structure
		if clientView {
			s = structure.ClientView(s)
		}
		printStructure(os.Stdout, s)
		return nil
	},
}

// edit command
var editCmd = &cobra.Command{
	Use:   "edit INSTANCE OP SECTION [FIELD] [OPTION]",
	Short: "Customize an instance",
	Long: "Customize an instance. OP is one of: " +
		strings.Join(structure.OpNames(), ", ") + ".",
	Args: cobra.RangeArgs(3, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, _ := cmd.Flags().GetInt64("version")

		e, err := app.ParseEdit(args[1:])
		if err != nil {
			return err
		}

		a, err := newApp(cmd, "Edit", args)
		if err != nil {
			return err
		}
		defer a.Close()

		inst, err := a.Edit(args[0], version, e)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s (version %d)\n", inst.ID, e.Summary(), inst.Version)
		return nil
	},
}

// fill command
var fillCmd = &cobra.Command{
	Use:   "fill INSTANCE SECTION FIELD VALUE...",
	Short: "Set a field value",
	Args:  cobra.MinimumNArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, _ := cmd.Flags().GetInt64("version")

		a, err := newApp(cmd, "Fill", args)
		if err != nil {
			return err
		}
		defer a.Close()

		inst, err := a.Fill(args[0], args[1], args[2], version, args[3:])
		if err != nil {
			return err
		}
		fmt.Printf("%s: set %s/%s (version %d)\n", inst.ID, args[1], args[2], inst.Version)
		return nil
	},
}

// toggle command
var toggleCmd = &cobra.Command{
	Use:   "toggle INSTANCE SECTION FIELD OPTION",
	Short: "Select or deselect a checkbox-group option",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Toggle", args)
		if err != nil {
			return err
		}
		defer a.Close()

		inst, err := a.Toggle(args[0], args[1], args[2], args[3])
		if err != nil {
			return err
		}
		f, err := inst.Structure.Field(args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("%s/%s = %s\n", args[1], args[2], valueString(f.Value))
		return nil
	},
}

// lifecycle commands
var publishCmd = &cobra.Command{
	Use:   "publish INSTANCE",
	Short: "Send an instance to its client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, "Publish", args, func(a *app.App) (*model.Instance, error) {
			return a.Publish(args[0])
		})
	},
}

var acceptCmd = &cobra.Command{
	Use:   "accept INSTANCE",
	Short: "Record the client's acceptance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, "Accept", args, func(a *app.App) (*model.Instance, error) {
			return a.Accept(args[0])
		})
	},
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback INSTANCE COMMENT...",
	Short: "Record that the client requested changes",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, "RequestChanges", args, func(a *app.App) (*model.Instance, error) {
			return a.RequestChanges(args[0], strings.Join(args[1:], " "))
		})
	},
}

func runTransition(cmd *cobra.Command, operation string, args []string, fn func(a *app.App) (*model.Instance, error)) error {
	a, err := newApp(cmd, operation, args)
	if err != nil {
		return err
	}
	defer a.Close()

	inst, err := fn(a)
	if err != nil {
		return err
	}
	fmt.Printf("%s is now %s\n", inst.ID, inst.Status)
	return nil
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history INSTANCE",
	Short: "View the audit log of an instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "History", args)
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.History(args[0])
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s  %s  %-12s  %s\n",
				e.ID, e.CreatedAt.Local().Format(timeFormat), e.ActorID, e.Summary)
		}
		return nil
	},
}

var revertCmd = &cobra.Command{
	Use:   "revert INSTANCE ENTRY",
	Short: "Restore the structure recorded in an audit entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Revert", args)
		if err != nil {
			return err
		}
		defer a.Close()

		inst, err := a.Revert(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s reverted (version %d)\n", inst.ID, inst.Version)
		return nil
	},
}

// archive commands
var publicationsCmd = &cobra.Command{
	Use:   "publications INSTANCE",
	Short: "List archived documents of an instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ListPublications", args)
		if err != nil {
			return err
		}
		defer a.Close()

		pubs, err := a.Publications(args[0])
		if err != nil {
			return err
		}
		if len(pubs) == 0 {
			fmt.Println("No publications.")
			return nil
		}
		for _, p := range pubs {
			enc := ""
			if p.Encrypted {
				enc = "  [encrypted]"
			}
			fmt.Printf("%s  v%-3d  %s  %s  %d%s\n",
				p.ID, p.Version, p.PublishedAt.Local().Format(timeFormat), p.Checksum[:12], p.Size, enc)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export PUBLICATION",
	Short: "Write an archived document as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		a, err := newApp(cmd, "ExportPublication", args)
		if err != nil {
			return err
		}
		defer a.Close()

		var passphrase string
		if a.EncryptionEnabled() {
			if passphrase, err = readPassphrase("Passphrase: "); err != nil {
				return err
			}
		}

		var w io.Writer = os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			w = f
		}

		if _, err := a.ExportPublication(args[0], passphrase, w); err != nil {
			return err
		}
		return nil
	},
}

// outbox command
var outboxCmd = &cobra.Command{
	Use:   "outbox",
	Short: "View queued notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd, "Outbox", args)
		if err != nil {
			return err
		}
		defer a.Close()

		notices, err := a.Outbox(limit)
		if err != nil {
			return err
		}
		if len(notices) == 0 {
			fmt.Println("Outbox is empty.")
			return nil
		}
		for _, n := range notices {
			detail := n.ClientID
			if n.Kind == model.NotificationFeedbackReceived {
				detail = strconv.Quote(n.Comment)
			}
			fmt.Printf("%s  %-17s  %s  %s\n",
				n.CreatedAt.Local().Format(timeFormat), n.Kind, n.InstanceID, detail)
		}
		return nil
	},
}

// operations command
var operationsCmd = &cobra.Command{
	Use:   "operations",
	Short: "View recent state-changing commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd, "Operations", args)
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.Operations(limit)
		if err != nil {
			return err
		}
		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}
		for _, op := range ops {
			duration := ""
			if op.FinishedAt != nil {
				duration = op.FinishedAt.Sub(op.StartedAt).Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-16s  %s  %-8s  %-10s  %s  %s\n",
				op.ID,
				op.Name,
				op.StartedAt.Local().Format(timeFormat),
				op.Status,
				duration,
				op.ActorID,
				op.Parameters,
			)
		}
		return nil
	},
}

// printStructure writes a document outline, one field per line.
func printStructure(w io.Writer, s structure.Structure) {
	for _, sec := range s.Sections {
		fmt.Fprintf(w, "[%s] %s\n", sec.ID, sec.Title)
		for _, f := range sec.Fields {
			hidden := ""
			if f.Hidden {
				hidden = "  (hidden)"
			}
			fmt.Fprintf(w, "  %-16s %-15s %s = %s%s\n", f.ID, f.Kind, f.Label, valueString(f.Value), hidden)
			for _, opt := range f.Options {
				mark := " "
				if contains(f.HiddenOptions, opt) {
					mark = "-"
				}
				fmt.Fprintf(w, "      %s %s\n", mark, opt)
			}
		}
	}
}

func valueString(v *structure.Value) string {
	if v == nil {
		return "<empty>"
	}
	return v.String()
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

func init() {
	templateCmd.AddCommand(templateImportCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateShowCmd.Flags().Bool("guidance-html", false, "Render the guidance as HTML")
	templateShowCmd.Flags().String("format", "", "Print the template file as yaml or json")
	templateCmd.AddCommand(templatePromoteCmd)

	instanceCmd.AddCommand(instanceListCmd)
	instanceListCmd.Flags().String("client", "", "Only list instances of this client")
	instanceCmd.AddCommand(instanceShowCmd)
	instanceShowCmd.Flags().Bool("client-view", false, "Show the document as the client sees it")

	editCmd.Flags().Int64("version", 0, "Version the edit is based on (0: current)")
	fillCmd.Flags().Int64("version", 0, "Version the edit is based on (0: current)")
	exportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	outboxCmd.Flags().IntP("limit", "n", 50, "Maximum number of notifications to show")
	operationsCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")

	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(instanceCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(fillCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(acceptCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(revertCmd)
	rootCmd.AddCommand(publicationsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(outboxCmd)
	rootCmd.AddCommand(operationsCmd)
}
