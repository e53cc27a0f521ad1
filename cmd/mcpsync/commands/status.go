package commands

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/format"
	"github.com/thoreinstein/mcpsync/internal/syncer"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show each installed app's MCP config state",
	Long: `Show the state of every installed application's MCP config: which
dialect the file is in, how many servers it defines, and whether the
apps agree with each other.

Agreement is checked pairwise against the first app that has servers
configured, so a freshly edited config stands out before running sync.`,
	Example: `  mcpsync status`,
	Args:    cobra.NoArgs,
	RunE:    runStatus,
}

// appState is one row of the status table.
type appState struct {
	name    string
	path    string
	dialect string
	servers []string
	state   string
	broken  bool
}

func runStatus(cmd *cobra.Command, _ []string) error {
	targets, err := installedTargets()
	if err != nil {
		return err
	}

	states := make([]appState, 0, len(targets))
	var reference format.Doc

	for _, t := range targets {
		st := appState{name: t.Name, path: t.Path}

		load := syncer.LoadDocument(t.Path)
		switch load.State {
		case syncer.StateAbsent:
			st.state = "no config"
		case syncer.StateParseError:
			st.state = "invalid JSON"
			st.broken = true
		default:
			adapter := format.DetectFormat(load.Doc)
			extracted := adapter.Extract(load.Doc)
			st.dialect = adapter.Name()
			st.servers = serverNames(extracted)
			st.state = "ok"
			if reference == nil && len(st.servers) > 0 {
				reference = extracted
			}
		}

		states = append(states, st)
	}

	w := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sAPP%s\t%sSTATE%s\t%sDIALECT%s\t%sSERVERS%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, st := range states {
		stateColor := colorGreen
		if st.state != "ok" {
			stateColor = colorYellow
		}
		if st.broken {
			stateColor = colorGray
		}

		serversLabel := "-"
		if len(st.servers) > 0 {
			serversLabel = truncate(strings.Join(st.servers, ", "), 60)
		}

		dialect := st.dialect
		if dialect == "" {
			dialect = "-"
		}

		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\t%s\n",
			colorCyan, st.name, colorReset,
			stateColor, st.state, colorReset,
			dialect,
			serversLabel)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if reference != nil {
		printAgreement(w, states, reference)
	}

	return nil
}

// printAgreement notes which apps disagree with the first populated config.
func printAgreement(w io.Writer, states []appState, reference format.Doc) {
	refServers := format.Servers(reference)

	var outOfSync []string
	for _, st := range states {
		if st.state != "ok" {
			continue
		}
		if !sameServerSet(st.servers, refServers) {
			outOfSync = append(outOfSync, st.name)
		}
	}

	fmt.Fprintln(w)
	if len(outOfSync) == 0 {
		fmt.Fprintf(w, "%sAll configured apps agree on %d server(s)%s\n",
			colorGreen, len(refServers), colorReset)
		return
	}
	fmt.Fprintf(w, "%sOut of sync: %s%s\n",
		colorYellow, strings.Join(outOfSync, ", "), colorReset)
	fmt.Fprintln(w, "Run: mcpsync sync <app> (to pick a source of truth)")
}

func serverNames(canonical format.Doc) []string {
	servers := format.Servers(canonical)
	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func sameServerSet(names []string, servers map[string]any) bool {
	if len(names) != len(servers) {
		return false
	}
	for _, n := range names {
		if _, ok := servers[n]; !ok {
			return false
		}
	}
	return true
}
