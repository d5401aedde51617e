package cli

import (
	"fmt"

	"github.com/arthur-debert/stagedir/internal/version"
	"github.com/arthur-debert/stagedir/pkg/announce"
	"github.com/arthur-debert/stagedir/pkg/config"
	"github.com/arthur-debert/stagedir/pkg/depenv"
	"github.com/arthur-debert/stagedir/pkg/environment"
	"github.com/arthur-debert/stagedir/pkg/filesystem"
	"github.com/arthur-debert/stagedir/pkg/logging"
	"github.com/arthur-debert/stagedir/pkg/manifest"
	"github.com/arthur-debert/stagedir/pkg/mirror"
	"github.com/arthur-debert/stagedir/pkg/staging"
	"github.com/arthur-debert/stagedir/pkg/target"
	"github.com/arthur-debert/stagedir/pkg/types"
	"github.com/arthur-debert/stagedir/pkg/walk"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globals are the persistent flags shared by every command
type globals struct {
	verbosity    int
	envFiles     []string
	manifestPath string
	prefix       string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "stagedir",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringArrayVar(&g.envFiles, "env-file", nil, MsgFlagEnvFile)
	rootCmd.PersistentFlags().StringVar(&g.manifestPath, "manifest", "", MsgFlagManifest)
	rootCmd.PersistentFlags().StringVar(&g.prefix, "prefix", announce.DefaultPrefix, MsgFlagPrefix)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newMirrorCmd(g, "copy", MsgCopyShort, (*mirror.Mirror).Copy))
	rootCmd.AddCommand(newMirrorCmd(g, "link", MsgLinkShort, (*mirror.Mirror).Link))
	rootCmd.AddCommand(newStageCmd(g))
	rootCmd.AddCommand(newDepValueCmd(g))
	rootCmd.AddCommand(newTargetDirCmd(g))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

// environment builds the build-variable source for a command run
func (g *globals) environment() (types.Environment, error) {
	if len(g.envFiles) > 0 {
		return environment.FromDotenv(g.envFiles...)
	}
	return environment.FromProcess()
}

func writeManifest(m *manifest.Manifest, path string) error {
	if path == "" {
		return nil
	}
	if err := m.WriteFile(filesystem.NewOS(), path); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("entries", len(m.Entries)).Msg("Manifest written")
	return nil
}

type mirrorFunc func(m *mirror.Mirror, src, dest string) error

func newMirrorCmd(g *globals, use, short string, run mirrorFunc) *cobra.Command {
	var maxDepth int

	cmd := &cobra.Command{
		Use:   use + " SRC DEST",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			record := manifest.New()
			m := mirror.New(
				filesystem.NewOS(),
				announce.NewWriter(cmd.OutOrStdout(), announce.WithPrefix(g.prefix)),
				mirror.WithObserver(record.Observe),
				mirror.WithWalkOptions(walk.WithMaxDepth(maxDepth)),
			)
			if err := run(m, args[0], args[1]); err != nil {
				return err
			}
			return writeManifest(record, g.manifestPath)
		},
	}
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, MsgFlagMaxDepth)
	return cmd
}

func newStageCmd(g *globals) *cobra.Command {
	var (
		planPath string
		key      string
		dirs     []string
		deps     []string
		merges   []string
		maxDepth int
	)

	cmd := &cobra.Command{
		Use:   "stage",
		Short: MsgStageShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfiguration(planPath)
			if err != nil {
				return err
			}

			// Flags win over the plan
			if key != "" {
				cfg.Key = key
			}
			cfg.Dirs = append(cfg.Dirs, dirs...)
			cfg.Deps = append(cfg.Deps, deps...)
			cfg.Merge = append(cfg.Merge, merges...)
			if cmd.Flags().Changed("max-depth") {
				cfg.MaxDepth = maxDepth
			}
			if cmd.Flags().Changed("prefix") || cfg.Prefix == "" {
				cfg.Prefix = g.prefix
			}
			if g.manifestPath != "" {
				cfg.Manifest = g.manifestPath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			env, err := g.environment()
			if err != nil {
				return err
			}
			return runPlan(cmd, cfg, env)
		},
	}

	cmd.Flags().StringVar(&planPath, "config", "", MsgFlagConfig)
	cmd.Flags().StringVar(&key, "key", "", MsgFlagKey)
	cmd.Flags().StringArrayVar(&dirs, "dir", nil, MsgFlagDir)
	cmd.Flags().StringArrayVar(&deps, "dep", nil, MsgFlagDep)
	cmd.Flags().StringArrayVar(&merges, "merge", nil, MsgFlagMerge)
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, MsgFlagMaxDepth)
	return cmd
}

// runPlan stages the plan's dirs, deps and merges in that order, then
// runs its link mirrors
func runPlan(cmd *cobra.Command, cfg *config.Config, env types.Environment) error {
	fsys := filesystem.NewOS()
	announcer := announce.NewWriter(cmd.OutOrStdout(), announce.WithPrefix(cfg.Prefix))
	record := manifest.New()
	mirrorOpts := []mirror.Option{
		mirror.WithObserver(record.Observe),
		mirror.WithWalkOptions(walk.WithMaxDepth(cfg.MaxDepth)),
	}

	if cfg.HasStaging() {
		root, err := staging.New(cfg.Key,
			staging.WithFS(fsys),
			staging.WithEnvironment(env),
			staging.WithAnnouncer(announcer),
			staging.WithMirrorOptions(mirrorOpts...),
		)
		if err != nil {
			return err
		}
		record.Key = root.Key()
		record.Root = root.Path()

		for _, dir := range cfg.Dirs {
			if _, err := root.AddDir(dir); err != nil {
				return err
			}
		}
		for _, dep := range cfg.Deps {
			if _, err := root.AddDep(dep); err != nil {
				return err
			}
		}
		for _, dep := range cfg.Merge {
			if _, err := root.MergeDep(dep); err != nil {
				return err
			}
		}
	}

	m := mirror.New(fsys, announcer, mirrorOpts...)
	for _, l := range cfg.Links {
		if err := m.Link(l.Src, l.Dest); err != nil {
			return err
		}
	}

	return writeManifest(record, cfg.Manifest)
}

func newDepValueCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "dep-value DEP KEY",
		Short: MsgDepValueShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.environment()
			if err != nil {
				return err
			}
			value, err := depenv.Value(env, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newTargetDirCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "target-dir",
		Short: MsgTargetDirShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.environment()
			if err != nil {
				return err
			}
			dir, err := target.Dir(env)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
