package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/accommodation"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/faq"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/logging"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rate"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/user"
)

type memAccommodations struct {
	accommodation.Service
	items []*accommodation.Accommodation
}

func (m *memAccommodations) Create(_ context.Context, req accommodation.CreateRequest) (*accommodation.Accommodation, error) {
	a := &accommodation.Accommodation{ID: fmt.Sprintf("a%d", len(m.items)+1), Name: req.Name, Type: accommodation.Type(req.Type), Capacity: req.Capacity}
	m.items = append(m.items, a)
	return a, nil
}

func (m *memAccommodations) List(_ context.Context, filter accommodation.Filter) ([]*accommodation.Accommodation, int, error) {
	var out []*accommodation.Accommodation
	for _, a := range m.items {
		if strings.Contains(strings.ToLower(a.Name), strings.ToLower(filter.Keyword)) {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

type memRates struct {
	rate.Service
	created []rate.CreateRequest
}

func (m *memRates) Create(_ context.Context, req rate.CreateRequest) (*rate.Rate, error) {
	m.created = append(m.created, req)
	return &rate.Rate{AccommodationID: req.AccommodationID, Name: req.Name, Price: req.Price}, nil
}

type memFAQs struct {
	faq.Service
	items []*faq.FAQ
}

func (m *memFAQs) Create(_ context.Context, req faq.CreateRequest) (*faq.FAQ, error) {
	f := &faq.FAQ{Question: req.Question, Answer: req.Answer, SortOrder: req.SortOrder, IsActive: true}
	m.items = append(m.items, f)
	return f, nil
}

func (m *memFAQs) List(_ context.Context, filter faq.Filter) ([]*faq.FAQ, int, error) {
	var out []*faq.FAQ
	for _, f := range m.items {
		if strings.Contains(strings.ToLower(f.Question), strings.ToLower(filter.Keyword)) {
			out = append(out, f)
		}
	}
	return out, len(out), nil
}

func loadTestSeed(t *testing.T) *SeedFile {
	t.Helper()
	data, err := os.ReadFile("testdata/seed.yaml")
	require.NoError(t, err)
	seed, err := LoadSeed(bytes.NewReader(data))
	require.NoError(t, err)
	return seed
}

func TestLoadSeed(t *testing.T) {
	seed := loadTestSeed(t)

	require.Len(t, seed.Accommodations, 2)
	assert.Equal(t, "Sea View Villa", seed.Accommodations[0].Name)
	assert.Equal(t, 4, seed.Accommodations[0].Capacity)
	require.Len(t, seed.Accommodations[0].Rates, 2)
	assert.Equal(t, "4500.00", seed.Accommodations[0].Rates[0].Price)
	assert.Equal(t, "1500.50", seed.Accommodations[1].Rates[0].Price)
	require.Len(t, seed.FAQs, 2)
	assert.Equal(t, 2, seed.FAQs[1].SortOrder)
}

func TestLoadSeedRejectsBadInput(t *testing.T) {
	_, err := LoadSeed(strings.NewReader("accommodations:\n  - name: Villa\n    capacty: 4\n"))
	assert.Error(t, err)

	_, err = LoadSeed(strings.NewReader("accommodations:\n  - name: Villa\n    rates:\n      - name: Overnight\n        price: cheap\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accommodations[0].rates[0].price")
}

func TestSeederApply(t *testing.T) {
	accommodations := &memAccommodations{}
	rates := &memRates{}
	faqs := &memFAQs{}
	seeder := &Seeder{Accommodations: accommodations, Rates: rates, FAQs: faqs, Log: logging.Discard()}
	seed := loadTestSeed(t)

	res, err := seeder.Apply(context.Background(), seed)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Accommodations: 2, Rates: 3, FAQs: 2}, res)

	require.Len(t, rates.created, 3)
	assert.Equal(t, "a1", rates.created[0].AccommodationID)
	assert.Equal(t, "per_night", rates.created[0].Unit)
	assert.Equal(t, "a2", rates.created[2].AccommodationID)
	assert.Equal(t, "1500.5", rates.created[2].Price.String())

	// A second run only skips.
	res, err = seeder.Apply(context.Background(), seed)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Skipped: 4}, res)
	assert.Len(t, accommodations.items, 2)
	assert.Len(t, rates.created, 3)
}

type stubUsers struct {
	user.Service
	got user.CreateRequest
}

func (s *stubUsers) Create(_ context.Context, req user.CreateRequest) (*user.User, error) {
	s.got = req
	if req.Email == "taken@resort.ph" {
		return nil, user.ErrEmailAlreadyUsed
	}
	return &user.User{ID: "u1", Email: req.Email, Role: req.Role}, nil
}

func TestCreateAdmin(t *testing.T) {
	users := &stubUsers{}
	var out bytes.Buffer

	require.NoError(t, createAdmin(context.Background(), users, "owner@resort.ph", "s3cret-pass", "Krys", &out))
	assert.Equal(t, auth.RoleAdmin, users.got.Role)
	assert.Equal(t, "Krys", users.got.DisplayName)
	assert.Equal(t, "created admin owner@resort.ph (u1)\n", out.String())

	err := createAdmin(context.Background(), users, "taken@resort.ph", "s3cret-pass", "", &out)
	assert.ErrorIs(t, err, user.ErrEmailAlreadyUsed)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := NewRootCommand()
	for _, name := range []string{"migrate", "seed", "create-admin"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}
