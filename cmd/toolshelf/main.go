// cmd/toolshelf/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/toolshelf/toolshelf/internal/classifier"
	"github.com/toolshelf/toolshelf/internal/config"
	"github.com/toolshelf/toolshelf/internal/grouping"
	"github.com/toolshelf/toolshelf/internal/store"
)

var (
	catalogFlag  string
	configFlag   string
	dbFlag       string
	sessionFlag  string
	turnsFlag    int
	activateFlag string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "toolshelf",
		Short:         "Virtual tool grouping for agent catalogs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	group := &cobra.Command{
		Use:   "group",
		Short: "Compute the grouped presentation of a catalog fixture",
		RunE:  runGroup,
	}
	group.Flags().StringVar(&catalogFlag, "catalog", "", "YAML catalog fixture (required)")
	group.Flags().StringVar(&configFlag, "config", "", "TOML config file")
	group.Flags().StringVar(&dbFlag, "db", "", "SQLite path for the persisted group cache")
	group.Flags().StringVar(&sessionFlag, "session", "", "session ID (random if omitted)")
	group.Flags().IntVar(&turnsFlag, "turns", 1, "number of computations to run")
	group.Flags().StringVar(&activateFlag, "activate", "", "comma-separated group names to activate between turns")
	_ = group.MarkFlagRequired("catalog")

	root.AddCommand(group)
	return root
}

func runGroup(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFlag != "" {
		loaded, err := config.Load(configFlag)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	actions, err := loadCatalog(catalogFlag)
	if err != nil {
		return err
	}

	dbPath := dbFlag
	if dbPath == "" {
		dbPath = cfg.Cache.Path
	}
	if dbPath == "" {
		dbPath = ":memory:"
	}
	st, err := store.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	cache, err := grouping.LoadCache(st, cfg.Cache.Capacity)
	if err != nil {
		return err
	}

	engine := grouping.NewEngine(classifier.NewHeuristic(), cache, grouping.Limits{
		StartGroupingAfter:      func() int { return cfg.Grouping.StartGroupingAfterCount },
		MinToolsetSizeToGroup:   cfg.Grouping.MinToolsetSizeToGroup,
		GroupWithinToolsetLimit: cfg.Grouping.GroupWithinToolsetLimit,
		HardToolLimit:           cfg.Grouping.HardToolLimit,
		ExpandUntilCount:        cfg.Grouping.ExpandUntilCount,
		ClassifyConcurrency:     cfg.Classifier.Concurrency,
	})
	registry := grouping.NewSessionRegistry(engine, cfg.Grouping.SessionCapacity)

	sessionID := sessionFlag
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	state := registry.GetOrCreate(sessionID, actions)

	for turn := 1; turn <= turnsFlag; turn++ {
		tree := state.Compute(cmd.Context())
		fmt.Printf("turn %d (session %s): %d entries, %d visible slots (hard limit %d)\n",
			turn, sessionID, len(tree.Entries), tree.VisibleSlots(), cfg.Grouping.HardToolLimit)
		printTree(tree)

		if activateFlag != "" && turn < turnsFlag {
			for _, name := range strings.Split(activateFlag, ",") {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				if !state.Activate(name) {
					fmt.Printf("  (no collapsed group named %q)\n", name)
				}
			}
		}
	}

	if err := grouping.SaveCache(st, cache); err != nil {
		log.Printf("toolshelf: persisting group cache failed: %v", err)
	}
	return nil
}

func printTree(tree *grouping.Tree) {
	for _, e := range tree.Entries {
		switch {
		case e.Action != nil:
			fmt.Printf("  %s\n", e.Action.Name)
		case e.Group != nil && e.Group.Expanded:
			fmt.Printf("  %s [expanded, %d tools]\n", e.Group.Name, len(e.Group.Members))
			for _, m := range e.Group.Members {
				fmt.Printf("    %s\n", m.Name)
			}
		case e.Group != nil:
			fmt.Printf("  %s [collapsed, %d tools] %s\n", e.Group.Name, len(e.Group.Members), e.Group.Summary)
		}
	}
}
