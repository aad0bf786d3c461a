package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tuusuario/wm-trace-snapshots/internal/server"
	"github.com/tuusuario/wm-trace-snapshots/internal/trace"
)

var (
	captureName        string
	captureDescription string
	captureTags        []string
	captureSamples     int
	captureInterval    time.Duration
	captureSanitize    bool
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a window hierarchy trace",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		samples := captureSamples
		if !cmd.Flags().Changed("samples") {
			samples = a.cfg.Samples
		}
		interval := captureInterval
		if !cmd.Flags().Changed("interval") {
			interval = a.cfg.Interval()
		}

		tr, err := a.manager.Capture(cmd.Context(), trace.CaptureOptions{
			Name:        captureName,
			Description: captureDescription,
			Tags:        captureTags,
			Samples:     samples,
			Interval:    interval,
			Sanitize:    captureSanitize || a.cfg.Sanitize,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Captured trace %s (%d entries)\n", tr.ID, len(tr.Entries))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored traces",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		traces, err := a.manager.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(traces) == 0 {
			fmt.Println("No traces found.")
			return nil
		}
		for _, t := range traces {
			fmt.Printf("%s  %-20s  %s  collector=%s", t.ID, t.Name,
				t.CreatedAt.Format(time.RFC822), t.Collector)
			if t.GitBranch != "" {
				fmt.Printf("  branch=%s", t.GitBranch)
			}
			fmt.Println()
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <trace-id>",
	Short: "Show the window states of a trace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		t, err := a.manager.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Trace %s (%s), %d entries\n", t.ID, t.Name, len(t.Entries))
		for i, e := range t.Entries {
			fmt.Printf("Entry %d (+%dms):\n", i, e.ElapsedNanos/int64(time.Millisecond))
			for _, w := range e.Windows {
				fmt.Printf("  %s\n", w)
			}
		}
		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff <source-id> <target-id>",
	Short: "Structurally diff two traces",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		d, err := a.manager.Diff(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Print(server.FormatDiff(d))
		if d.Changed() {
			// Non-zero exit lets CI gate on structural differences.
			return fmt.Errorf("traces differ")
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <trace-id>",
	Short: "Delete a trace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.manager.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Trace %s deleted\n", args[0])
		return nil
	},
}

func init() {
	captureCmd.Flags().StringVar(&captureName, "name", "unnamed", "trace name")
	captureCmd.Flags().StringVar(&captureDescription, "description", "", "trace description")
	captureCmd.Flags().StringSliceVar(&captureTags, "tag", nil, "tags to attach (repeatable)")
	captureCmd.Flags().IntVar(&captureSamples, "samples", 1, "number of hierarchy snapshots")
	captureCmd.Flags().DurationVar(&captureInterval, "interval", 0, "delay between snapshots")
	captureCmd.Flags().BoolVar(&captureSanitize, "sanitize", false, "redact sensitive window titles")

	rootCmd.AddCommand(captureCmd, listCmd, showCmd, diffCmd, deleteCmd)
}
