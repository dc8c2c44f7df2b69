package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/testutil"
)

// executeCommand runs the root command in-process with fresh flag values.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// writeResume writes a small complete résumé to dir and returns its path.
func writeResume(t *testing.T, dir, name string) string {
	t.Helper()
	data := testutil.BuildDocx(t,
		testutil.Bold("John Doe Smith"),
		testutil.Plain("123 Main St, New York, NY"),
		testutil.Plain("john.doe@example.com"),
		testutil.Plain("(555) 123-4567"),
		testutil.Sized("Experience", "28"),
		testutil.Bold("Acme Corp"),
		testutil.Plain("Software Engineer"),
		testutil.Plain("Jan 2020 - Present"),
		testutil.Plain("• Reduced deploy time by 30%"),
		testutil.Sized("Education", "28"),
		testutil.Plain("B.S. in Computer Science, State University, 2019"),
		testutil.Sized("Skills", "28"),
		testutil.Plain("Go, SQL, Team leadership"),
	)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
