package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/powderlines/resort-cli/internal/model"
	"github.com/powderlines/resort-cli/internal/slug"
)

var importFilePath string

// seedFile is the YAML shape accepted by `import`.
type seedFile struct {
	Resorts []seedResort `yaml:"resorts"`
}

type seedResort struct {
	Slug       string  `yaml:"slug"`
	Name       string  `yaml:"name"`
	Country    string  `yaml:"country"`
	State      string  `yaml:"state"`
	Latitude   float64 `yaml:"latitude"`
	Longitude  float64 `yaml:"longitude"`
	LiftsTotal int     `yaml:"lifts_total"`
	RunsTotal  int     `yaml:"runs_total"`
	VerticalM  int     `yaml:"vertical_m"`
	Tagline    string  `yaml:"tagline"`
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Seed resorts from a YAML file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("sync"); err != nil {
			return err
		}

		resorts, err := loadSeedFile(importFilePath)
		if err != nil {
			return err
		}
		if len(resorts) == 0 {
			return eris.Errorf("no resorts found in %s", importFilePath)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := st.BulkUpsertResorts(ctx, resorts)
		if err != nil {
			return eris.Wrap(err, "import")
		}

		zap.L().Info("import complete",
			zap.Int64("upserted", n),
			zap.String("file", importFilePath),
			zap.Bool("dry_run", flagDryRun),
		)
		return nil
	},
}

// loadSeedFile parses the YAML seed and normalizes each entry into a
// resort row. Entries without a slug get one derived from the name.
func loadSeedFile(path string) ([]model.Resort, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "import: read %s", path)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, eris.Wrapf(err, "import: parse %s", path)
	}

	resorts := make([]model.Resort, 0, len(seed.Resorts))
	for i, s := range seed.Resorts {
		if s.Name == "" {
			return nil, eris.Errorf("import: entry %d has no name", i)
		}
		sl := s.Slug
		if sl == "" {
			sl = slug.Make(s.Name)
		}
		resorts = append(resorts, model.Resort{
			Slug:       sl,
			Name:       s.Name,
			Country:    s.Country,
			StateSlug:  s.State,
			Latitude:   s.Latitude,
			Longitude:  s.Longitude,
			LiftsTotal: s.LiftsTotal,
			RunsTotal:  s.RunsTotal,
			VerticalM:  s.VerticalM,
			Tagline:    s.Tagline,
			IsActive:   true,
			IsVisible:  true,
		})
	}
	return resorts, nil
}

func init() {
	importCmd.Flags().StringVar(&importFilePath, "file", "", "path to YAML seed file (required)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
