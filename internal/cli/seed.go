package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/accommodation"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/faq"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rate"
)

// SeedFile is the layout of a seed YAML file.
type SeedFile struct {
	Accommodations []SeedAccommodation `yaml:"accommodations"`
	FAQs           []SeedFAQ           `yaml:"faqs"`
}

type SeedAccommodation struct {
	Name        string     `yaml:"name"`
	Type        string     `yaml:"type"`
	Description string     `yaml:"description,omitempty"`
	Capacity    int        `yaml:"capacity"`
	Rates       []SeedRate `yaml:"rates,omitempty"`
}

type SeedRate struct {
	Name string `yaml:"name"`
	// Price is kept as text so amounts like 1500.50 are not read as floats.
	Price string `yaml:"price"`
	Unit  string `yaml:"unit"`
}

type SeedFAQ struct {
	Question  string `yaml:"question"`
	Answer    string `yaml:"answer"`
	SortOrder int    `yaml:"sort_order,omitempty"`
}

// SeedResult counts what a seed run created and what already existed.
type SeedResult struct {
	Accommodations int
	Rates          int
	FAQs           int
	Skipped        int
}

// LoadSeed parses a seed file. Unknown keys are rejected so typos do not
// silently drop data.
func LoadSeed(r io.Reader) (*SeedFile, error) {
	var seed SeedFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for i, a := range seed.Accommodations {
		for j, rt := range a.Rates {
			if _, err := decimal.NewFromString(rt.Price); err != nil {
				return nil, fmt.Errorf("accommodations[%d].rates[%d].price %q is not a number", i, j, rt.Price)
			}
		}
	}
	return &seed, nil
}

// Seeder loads seed data through the services, so the same rules apply as
// for the admin API. Entries whose name or question already exists are
// skipped, which makes seeding repeatable.
type Seeder struct {
	Accommodations accommodation.Service
	Rates          rate.Service
	FAQs           faq.Service
	Log            logrus.FieldLogger
}

func (s *Seeder) Apply(ctx context.Context, seed *SeedFile) (SeedResult, error) {
	var res SeedResult

	for _, sa := range seed.Accommodations {
		exists, err := s.accommodationExists(ctx, sa.Name)
		if err != nil {
			return res, err
		}
		if exists {
			s.Log.WithField("name", sa.Name).Info("accommodation exists, skipping")
			res.Skipped++
			continue
		}

		a, err := s.Accommodations.Create(ctx, accommodation.CreateRequest{
			Name:        sa.Name,
			Type:        sa.Type,
			Description: sa.Description,
			Capacity:    sa.Capacity,
		})
		if err != nil {
			return res, fmt.Errorf("accommodation %q: %w", sa.Name, err)
		}
		res.Accommodations++

		for _, sr := range sa.Rates {
			price, err := decimal.NewFromString(sr.Price)
			if err != nil {
				return res, fmt.Errorf("rate %q of %q: %w", sr.Name, sa.Name, err)
			}
			if _, err := s.Rates.Create(ctx, rate.CreateRequest{
				AccommodationID: a.ID,
				Name:            sr.Name,
				Price:           price,
				Unit:            sr.Unit,
			}); err != nil {
				return res, fmt.Errorf("rate %q of %q: %w", sr.Name, sa.Name, err)
			}
			res.Rates++
		}
	}

	for _, sf := range seed.FAQs {
		exists, err := s.faqExists(ctx, sf.Question)
		if err != nil {
			return res, err
		}
		if exists {
			res.Skipped++
			continue
		}
		if _, err := s.FAQs.Create(ctx, faq.CreateRequest{
			Question:  sf.Question,
			Answer:    sf.Answer,
			SortOrder: sf.SortOrder,
		}); err != nil {
			return res, fmt.Errorf("faq %q: %w", sf.Question, err)
		}
		res.FAQs++
	}

	return res, nil
}

func (s *Seeder) accommodationExists(ctx context.Context, name string) (bool, error) {
	list, _, err := s.Accommodations.List(ctx, accommodation.Filter{Keyword: name, PageSize: 100})
	if err != nil {
		return false, err
	}
	for _, a := range list {
		if strings.EqualFold(a.Name, strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Seeder) faqExists(ctx context.Context, question string) (bool, error) {
	list, _, err := s.FAQs.List(ctx, faq.Filter{Keyword: question, PageSize: 100})
	if err != nil {
		return false, err
	}
	for _, f := range list {
		if strings.EqualFold(f.Question, strings.TrimSpace(question)) {
			return true, nil
		}
	}
	return false, nil
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "seed --file seed.yaml",
		Short: "Load accommodations, rates and FAQs from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read seed file: %w", err)
			}
			seed, err := LoadSeed(bytes.NewReader(data))
			if err != nil {
				return err
			}

			e, err := connect(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.Close()

			c, err := e.container()
			if err != nil {
				return err
			}

			seeder := &Seeder{
				Accommodations: c.AccommodationService,
				Rates:          c.RateService,
				FAQs:           c.FAQService,
				Log:            e.log,
			}
			res, err := seeder.Apply(cmd.Context(), seed)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %d accommodations, %d rates, %d faqs (%d skipped)\n",
				res.Accommodations, res.Rates, res.FAQs, res.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "seed YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
