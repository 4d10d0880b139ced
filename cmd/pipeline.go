package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/JoyRichB/vlc/internal/config"
	"github.com/JoyRichB/vlc/internal/contrib"
	"github.com/JoyRichB/vlc/internal/linkset"
	"github.com/JoyRichB/vlc/internal/project"
	"github.com/JoyRichB/vlc/internal/toolchain"
)

// ConfigFilename is looked up in the project root.
const ConfigFilename = "vlcbuild.toml"

// pipeline holds everything one SDK/arch build invocation needs: parsed
// configuration, the resolved toolchain, and the staging layout.
type pipeline struct {
	baseDir  string
	stageDir string // build/<sdk>-<arch>, holds all per-target artifacts
	cfg      *config.Config
	tc       *toolchain.Toolchain
	jobs     int
}

// newPipeline resolves configuration and toolchain for the target selected
// by flags and config. Flags win; [build] values fill in whatever the
// command line left at its default.
func newPipeline(cmd *cobra.Command, baseDir string) (*pipeline, error) {
	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}

	sdk := flagSDK.Value()
	arch := flagArch

	cfgPath := filepath.Join(baseDir, ConfigFilename)
	cfg, err := config.ParseFile(cfgPath, config.NewEnv(sdk, arch))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no %s in %s (run `vlcbuild init` to create one)", ConfigFilename, baseDir)
		}
		return nil, err
	}

	// config may select the target; re-parse so conditionals see it
	changed := false
	if !cmd.Flags().Changed("sdk") && cfg.Build.SDK != "" {
		sdk = cfg.Build.SDK
		changed = true
	}
	if !cmd.Flags().Changed("arch") && cfg.Build.Arch != "" {
		arch = cfg.Build.Arch
		changed = true
	}
	if changed {
		cfg, err = config.ParseFile(cfgPath, config.NewEnv(sdk, arch))
		if err != nil {
			return nil, err
		}
	}

	tc, err := toolchain.New(sdk, arch, cfg.Build.DeploymentTarget)
	if err != nil {
		return nil, err
	}
	tc.ExtraCFlags = cfg.Build.Cflags
	tc.ExtraLDFlags = cfg.Build.Ldflags

	jobs := cfg.Build.Jobs
	if flagJobs > 0 {
		jobs = flagJobs
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	return &pipeline{
		baseDir:  baseDir,
		stageDir: filepath.Join(baseDir, "build", sdk+"-"+arch),
		cfg:      cfg,
		tc:       tc,
		jobs:     jobs,
	}, nil
}

// installPrefix is where the main project installs; the plugin tree and
// core archives come from here.
func (p *pipeline) installPrefix() string {
	if p.cfg.Build.Prefix != "" {
		return p.cfg.Build.Prefix
	}
	return filepath.Join(p.stageDir, "install")
}

func (p *pipeline) contribPrefix() string {
	return filepath.Join(p.stageDir, "contrib")
}

func (p *pipeline) contribBuilder() *contrib.Builder {
	return &contrib.Builder{
		Recipes: p.cfg.Contribs,
		BaseDir: p.baseDir,
		SrcDir:  filepath.Join(p.stageDir, "contrib-src"),
		Prefix:  p.contribPrefix(),
		Jobs:    p.jobs,
		Tc:      p.tc,
	}
}

func (p *pipeline) projectBuilder() *project.Builder {
	return &project.Builder{
		SourceDir:     p.baseDir,
		BuildDir:      filepath.Join(p.stageDir, "vlcbuild"),
		Prefix:        p.installPrefix(),
		ContribPrefix: p.contribPrefix(),
		Jobs:          p.jobs,
		Tc:            p.tc,
	}
}

// removal composes the module removal set: configuration first, then any
// extra names given on the command line.
func (p *pipeline) removal() []string {
	return linkset.MergeRemoval(p.cfg.Modules.Remove, flagRemove)
}

// link runs the link-set pipeline against the current install trees and
// produces the consolidated archive inside the staging dir.
func (p *pipeline) link() error {
	prefix := p.installPrefix()
	asm := linkset.Assembly{
		PluginsDir:   project.PluginsDir(prefix),
		CoreArchives: project.CoreArchives(prefix),
		ContribDir:   p.contribBuilder().ArchiveDir(),
		BuildDir:     p.stageDir,
	}
	output := filepath.Join(p.stageDir, project.OutputArchive)
	return linkset.Build(p.tc, asm, p.removal(), output)
}
