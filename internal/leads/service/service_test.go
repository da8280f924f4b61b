package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/ports"
	"leadflow_backend/internal/leads/refdata"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Store mirroring the repository's SQL
// normalization so duplicate lookups behave like the real queries.
type fakeStore struct {
	leads   map[uuid.UUID]repository.Lead
	order   []uuid.UUID
	failAll bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{leads: make(map[uuid.UUID]repository.Lead)}
}

var errStoreDown = errors.New("store down")

func (f *fakeStore) Create(_ context.Context, p repository.CreateLeadParams) (repository.Lead, error) {
	if f.failAll {
		return repository.Lead{}, errStoreDown
	}
	now := time.Now().UTC()
	lead := repository.Lead{
		ID:              uuid.New(),
		Name:            p.Name,
		Email:           p.Email,
		Phone:           p.Phone,
		Location:        p.Location,
		StreetAddress:   p.StreetAddress,
		ZipCode:         p.ZipCode,
		State:           p.State,
		County:          p.County,
		Region:          p.Region,
		ServiceType:     p.ServiceType,
		ServiceTier:     p.ServiceTier,
		ProjectScope:    p.ProjectScope,
		EstimatedValue:  p.EstimatedValue,
		LeadType:        p.LeadType,
		LeadScore:       p.LeadScore,
		Tags:            p.Tags,
		ConfidenceScore: p.ConfidenceScore,
		PipelineStage:   p.PipelineStage,
		Status:          p.Status,
		Notes:           p.Notes,
		Source:          p.Source,
		DiscoveredAt:    p.DiscoveredAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.leads[lead.ID] = lead
	f.order = append(f.order, lead.ID)
	return lead, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeStore) List(_ context.Context, filters repository.ListFilters) ([]repository.Lead, error) {
	var out []repository.Lead
	for _, id := range f.order {
		lead := f.leads[id]
		if filters.Status != "" && lead.Status != filters.Status {
			continue
		}
		if filters.PipelineStage != "" && lead.PipelineStage != filters.PipelineStage {
			continue
		}
		if filters.ServiceTier != 0 && lead.ServiceTier != filters.ServiceTier {
			continue
		}
		if filters.Region != "" && (lead.Region == nil || *lead.Region != filters.Region) {
			continue
		}
		if filters.MinScore != 0 && lead.LeadScore < filters.MinScore {
			continue
		}
		out = append(out, lead)
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id uuid.UUID, p repository.UpdateLeadParams) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&lead.Name, p.Name)
	setStr(&lead.Location, p.Location)
	setStr(&lead.ZipCode, p.ZipCode)
	setStr(&lead.State, p.State)
	setStr(&lead.ServiceType, p.ServiceType)
	setStr(&lead.LeadType, p.LeadType)
	if p.Email != nil {
		lead.Email = p.Email
	}
	if p.Phone != nil {
		lead.Phone = p.Phone
	}
	if p.StreetAddress != nil {
		lead.StreetAddress = p.StreetAddress
	}
	if p.ProjectScope != nil {
		lead.ProjectScope = p.ProjectScope
	}
	if p.EstimatedValue != nil {
		lead.EstimatedValue = p.EstimatedValue
	}
	if p.Notes != nil {
		lead.Notes = p.Notes
	}
	lead.ServiceTier = p.ServiceTier
	lead.LeadScore = p.LeadScore
	lead.Tags = p.Tags
	lead.County = p.County
	lead.Region = p.Region
	lead.Status = p.Status
	lead.UpdatedAt = time.Now().UTC()
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeStore) UpdateStage(_ context.Context, id uuid.UUID, stage string) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.PipelineStage = stage
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeStore) MarkContacted(_ context.Context, id uuid.UUID, at time.Time) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.LastContactedAt = &at
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeStore) ListStale(_ context.Context, cutoff time.Time, initialStage string) ([]repository.Lead, error) {
	var out []repository.Lead
	for _, id := range f.order {
		lead := f.leads[id]
		if lead.Status != domain.StatusActive {
			continue
		}
		switch {
		case lead.LastContactedAt != nil:
			if lead.LastContactedAt.Before(cutoff) {
				out = append(out, lead)
			}
		case lead.PipelineStage == initialStage:
			intake := lead.CreatedAt
			if lead.DiscoveredAt != nil {
				intake = *lead.DiscoveredAt
			}
			if intake.Before(cutoff) {
				out = append(out, lead)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) FindByEmail(_ context.Context, email string) (*repository.DuplicateCandidate, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	for _, id := range f.order {
		lead := f.leads[id]
		if lead.Email != nil && strings.ToLower(strings.TrimSpace(*lead.Email)) == email {
			return candidateView(lead), nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByPhoneDigits(_ context.Context, digits string) (*repository.DuplicateCandidate, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	for _, id := range f.order {
		lead := f.leads[id]
		if lead.Phone != nil && digitsOf(*lead.Phone) == digits {
			return candidateView(lead), nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByNameLocation(_ context.Context, name, location string) (*repository.DuplicateCandidate, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	for _, id := range f.order {
		lead := f.leads[id]
		gotName := strings.ToLower(strings.Join(strings.Fields(lead.Name), " "))
		if strings.Contains(gotName, name) && strings.Contains(strings.ToLower(lead.Location), strings.ToLower(location)) {
			return candidateView(lead), nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FetchAll(_ context.Context) ([]repository.DuplicateCandidate, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	var out []repository.DuplicateCandidate
	for _, id := range f.order {
		out = append(out, *candidateView(f.leads[id]))
	}
	return out, nil
}

func (f *fakeStore) SummarizeByRegion(_ context.Context) ([]repository.RegionSummary, error) {
	byRegion := make(map[string]*repository.RegionSummary)
	var order []string
	for _, id := range f.order {
		lead := f.leads[id]
		if lead.Status != domain.StatusActive {
			continue
		}
		region := ""
		if lead.Region != nil {
			region = *lead.Region
		}
		s, ok := byRegion[region]
		if !ok {
			s = &repository.RegionSummary{Region: region}
			byRegion[region] = s
			order = append(order, region)
		}
		s.LeadCount++
		if lead.EstimatedValue != nil {
			s.EstimatedValue += *lead.EstimatedValue
		}
	}
	out := make([]repository.RegionSummary, 0, len(order))
	for _, region := range order {
		out = append(out, *byRegion[region])
	}
	return out, nil
}

func (f *fakeStore) SummarizeByStage(_ context.Context) ([]repository.StageSummary, error) {
	return nil, nil
}

func (f *fakeStore) SummarizeByTier(_ context.Context) ([]repository.TierSummary, error) {
	return nil, nil
}

func candidateView(lead repository.Lead) *repository.DuplicateCandidate {
	c := &repository.DuplicateCandidate{ID: lead.ID, Name: lead.Name, Location: lead.Location}
	if lead.Email != nil {
		c.Email = *lead.Email
	}
	if lead.Phone != nil {
		c.Phone = *lead.Phone
	}
	return c
}

// recordingBus captures published events synchronously.
type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return nil
}
func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) names() []string {
	out := make([]string, 0, len(b.published))
	for _, e := range b.published {
		out = append(out, e.EventName())
	}
	return out
}

type fakeExtractor struct {
	single ports.ExtractedLead
	many   []ports.ExtractedLead
	err    error
}

func (f *fakeExtractor) Extract(context.Context, string) (ports.ExtractedLead, error) {
	return f.single, f.err
}

func (f *fakeExtractor) Discover(context.Context, string) ([]ports.ExtractedLead, error) {
	return f.many, f.err
}

func newTestService(store Store, extractor ports.Extractor) (*Service, *recordingBus) {
	bus := &recordingBus{}
	svc := New(store, refdata.Default(), extractor, bus, nil, logger.New("test"))
	return svc, bus
}

func floatPtr(v float64) *float64 { return &v }

func TestCreateDerivesEverything(t *testing.T) {
	store := newFakeStore()
	svc, bus := newTestService(store, nil)

	lead, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:           "Jane Albright",
		Email:          "Jane.Albright@Example.com",
		Phone:          "703-555-0101",
		Location:       "Fairfax, VA",
		ZipCode:        "22030",
		ServiceType:    "Custom Home Build",
		EstimatedValue: floatPtr(450000),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if lead.ServiceTier != 1 {
		t.Errorf("tier = %d, want 1", lead.ServiceTier)
	}
	if lead.LeadScore < 90 {
		t.Errorf("score = %d, want >= 90", lead.LeadScore)
	}
	if lead.State != "VA" {
		t.Errorf("state = %q, want VA (defaulted)", lead.State)
	}
	if lead.County == nil || *lead.County != "Fairfax" {
		t.Errorf("county = %v, want Fairfax", lead.County)
	}
	if lead.Region == nil || *lead.Region != "Northern Virginia" {
		t.Errorf("region = %v, want Northern Virginia", lead.Region)
	}
	if lead.Status != domain.StatusActive {
		t.Errorf("status = %q, want active", lead.Status)
	}
	if lead.PipelineStage != domain.StageNew {
		t.Errorf("stage = %q, want New", lead.PipelineStage)
	}
	if lead.Email == nil || *lead.Email != "jane.albright@example.com" {
		t.Errorf("email = %v, want lowercased", lead.Email)
	}
	if lead.Phone == nil || *lead.Phone != "+17035550101" {
		t.Errorf("phone = %v, want E.164", lead.Phone)
	}
	var hasWhale bool
	for _, tag := range lead.Tags {
		if tag == string(domain.TagWhale) {
			hasWhale = true
		}
	}
	if !hasWhale {
		t.Errorf("tags = %v, want Whale present", lead.Tags)
	}

	names := bus.names()
	if len(names) != 1 || names[0] != "leads.lead.created" {
		t.Errorf("published = %v, want [leads.lead.created]", names)
	}
}

func TestCreateOutOfAreaIsArchivedWithNote(t *testing.T) {
	store := newFakeStore()
	svc, bus := newTestService(store, nil)

	lead, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:        "Bob Marsh",
		Location:    "Bethesda, MD area",
		ZipCode:     "20814",
		State:       "VA",
		ServiceType: "Roofing",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if lead.Status != domain.StatusArchived {
		t.Fatalf("status = %q, want archived", lead.Status)
	}
	if lead.Notes == nil || *lead.Notes == "" {
		t.Error("expected an archival note explaining the geofence verdict")
	}

	names := bus.names()
	if len(names) != 2 || names[1] != "leads.lead.archived" {
		t.Errorf("published = %v, want created then archived", names)
	}
}

func TestCreateUnclassifiableFallsBackToHandyman(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, nil)

	lead, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:        "Carol Yee",
		Location:    "Richmond, VA",
		ZipCode:     "23220",
		ServiceType: "underwater basket weaving",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if lead.ServiceType != string(refdata.DefaultService) {
		t.Errorf("service = %q, want %q", lead.ServiceType, refdata.DefaultService)
	}
	if lead.ServiceTier != 4 {
		t.Errorf("tier = %d, want 4", lead.ServiceTier)
	}
}

func TestUpdateServiceTypeRecomputesDerivedFields(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, nil)

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:        "Dan Okafor",
		Location:    "Norfolk, VA",
		ZipCode:     "23510",
		ServiceType: "Gutter Cleaning",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ServiceTier != 4 {
		t.Fatalf("setup tier = %d, want 4", created.ServiceTier)
	}

	newService := "Whole-Home Renovation"
	newValue := 250000.0
	updated, err := svc.Update(context.Background(), created.ID, transport.UpdateLeadRequest{
		ServiceType:    &newService,
		EstimatedValue: &newValue,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.ServiceTier != 1 {
		t.Errorf("tier = %d, want 1 after service change", updated.ServiceTier)
	}
	if updated.LeadScore <= created.LeadScore {
		t.Errorf("score = %d, want above original %d", updated.LeadScore, created.LeadScore)
	}
	var hasWhale bool
	for _, tag := range updated.Tags {
		if tag == string(domain.TagWhale) {
			hasWhale = true
		}
	}
	if !hasWhale {
		t.Errorf("tags = %v, want Whale after tier change", updated.Tags)
	}
}

func TestTransitionStage(t *testing.T) {
	store := newFakeStore()
	svc, bus := newTestService(store, nil)

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:        "Eve Tran",
		Location:    "Roanoke, VA",
		ZipCode:     "24016",
		ServiceType: "Deck Construction",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	bus.published = nil

	if _, err := svc.TransitionStage(context.Background(), created.ID, "Simmering"); err == nil {
		t.Error("expected error for unknown stage")
	} else {
		var appErr *apperr.Error
		if !errors.As(err, &appErr) {
			t.Errorf("error type = %T, want *apperr.Error", err)
		}
	}

	// Same stage is a no-op, no event.
	if _, err := svc.TransitionStage(context.Background(), created.ID, domain.StageNew); err != nil {
		t.Fatalf("TransitionStage same: %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatalf("published = %v, want none for no-op transition", bus.names())
	}

	moved, err := svc.TransitionStage(context.Background(), created.ID, domain.StageContacted)
	if err != nil {
		t.Fatalf("TransitionStage: %v", err)
	}
	if moved.PipelineStage != domain.StageContacted {
		t.Errorf("stage = %q, want Contacted", moved.PipelineStage)
	}
	if names := bus.names(); len(names) != 1 || names[0] != "leads.lead.stage_changed" {
		t.Errorf("published = %v, want [leads.lead.stage_changed]", names)
	}
}

func TestMarkContactedClearsStaleness(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, nil)

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:        "Frank Diaz",
		Location:    "Alexandria, VA",
		ZipCode:     "22301",
		ServiceType: "Fence Installation",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Backdate creation so the lead starts stale.
	stored := store.leads[created.ID]
	stored.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	store.leads[created.ID] = stored

	before, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !before.IsStale {
		t.Fatal("expected backdated uncontacted lead to be stale")
	}

	after, err := svc.MarkContacted(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("MarkContacted: %v", err)
	}
	if after.LastContactedAt == nil {
		t.Fatal("lastContactedAt not set")
	}
	if after.IsStale {
		t.Error("lead still stale after contact")
	}
	if after.PriorityRank >= before.PriorityRank {
		t.Errorf("priorityRank = %d, want below stale rank %d", after.PriorityRank, before.PriorityRank)
	}
}

func TestStalenessClockPrefersDiscoveredAt(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, nil)

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:        "Noel Barrett",
		Location:    "Hampton, VA",
		ZipCode:     "23661",
		ServiceType: "Siding Repair",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Discovered two days ago but only entered into the system just now:
	// the discovery time is the intake clock, not the row timestamp.
	discovered := time.Now().UTC().Add(-48 * time.Hour)
	stored := store.leads[created.ID]
	stored.DiscoveredAt = &discovered
	store.leads[created.ID] = stored

	lead, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !lead.IsStale {
		t.Error("lead discovered 48h ago not flagged stale")
	}
}

func TestCheckDuplicateFindsSeededLead(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, nil)

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:        "Grace Hopper",
		Email:       "grace@example.com",
		Location:    "Arlington, VA",
		ZipCode:     "22201",
		ServiceType: "Kitchen Remodel",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resp, err := svc.CheckDuplicate(context.Background(), transport.DuplicateCheckRequest{
		Email: "GRACE@example.com",
	})
	if err != nil {
		t.Fatalf("CheckDuplicate: %v", err)
	}
	if !resp.IsDuplicate || resp.MatchType != "email" {
		t.Fatalf("got (%v, %q), want duplicate by email", resp.IsDuplicate, resp.MatchType)
	}
	if resp.ExistingLead == nil || resp.ExistingLead.ID != created.ID {
		t.Error("existing lead not resolved")
	}
}

func TestExtractAndSave(t *testing.T) {
	store := newFakeStore()
	extractor := &fakeExtractor{single: ports.ExtractedLead{
		Name:            "Hank Voss",
		Email:           "hank@example.com",
		Location:        "Great Falls, VA",
		ZipCode:         "22066",
		ServiceType:     "custom home",
		EstimatedValue:  floatPtr(300000),
		ConfidenceScore: floatPtr(90),
	}}
	svc, _ := newTestService(store, extractor)

	lead, err := svc.ExtractAndSave(context.Background(), transport.ExtractRequest{Text: "..."})
	if err != nil {
		t.Fatalf("ExtractAndSave: %v", err)
	}
	if lead.Source == nil || *lead.Source != defaultDiscoverySource {
		t.Errorf("source = %v, want %q", lead.Source, defaultDiscoverySource)
	}
	if lead.DiscoveredAt == nil {
		t.Error("discoveredAt not set")
	}
	if lead.ServiceTier != 1 {
		t.Errorf("tier = %d, want 1 for custom home", lead.ServiceTier)
	}

	// Same candidate again is a conflict.
	if _, err := svc.ExtractAndSave(context.Background(), transport.ExtractRequest{Text: "..."}); err == nil {
		t.Fatal("expected conflict for duplicate extraction")
	}
}

func TestCreateProjectScopeAffectsScoreAndPersists(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, nil)

	plain, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:        "Rosa Delgado",
		Location:    "Chesterfield, VA",
		ZipCode:     "23832",
		ServiceType: "Gutter Cleaning",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	scoped, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:         "Miles Okafor",
		Location:     "Chesterfield, VA",
		ZipCode:      "23832",
		ServiceType:  "Gutter Cleaning",
		ProjectScope: "enterprise",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if scoped.ProjectScope == nil || *scoped.ProjectScope != string(domain.ScopeEnterprise) {
		t.Errorf("projectScope = %v, want enterprise persisted", scoped.ProjectScope)
	}
	if plain.ProjectScope != nil {
		t.Errorf("projectScope = %v, want nil when absent", plain.ProjectScope)
	}
	if scoped.LeadScore <= plain.LeadScore {
		t.Errorf("scope had no effect on score: scoped=%d plain=%d", scoped.LeadScore, plain.LeadScore)
	}
}

func TestExtractAndSaveParsesScopeAlias(t *testing.T) {
	store := newFakeStore()
	extractor := &fakeExtractor{single: ports.ExtractedLead{
		Name:         "Priya Raman",
		Email:        "priya@example.com",
		Location:     "McLean, VA",
		ZipCode:      "22101",
		ServiceType:  "Whole Home Renovation",
		ProjectScope: "Whole-Home",
	}}
	svc, _ := newTestService(store, extractor)

	lead, err := svc.ExtractAndSave(context.Background(), transport.ExtractRequest{Text: "..."})
	if err != nil {
		t.Fatalf("ExtractAndSave: %v", err)
	}
	if lead.ProjectScope == nil || *lead.ProjectScope != string(domain.ScopeEnterprise) {
		t.Errorf("projectScope = %v, want alias parsed to enterprise", lead.ProjectScope)
	}
}

func TestExtractAndSaveRejectsNameless(t *testing.T) {
	store := newFakeStore()
	extractor := &fakeExtractor{single: ports.ExtractedLead{Location: "Somewhere, VA"}}
	svc, _ := newTestService(store, extractor)

	if _, err := svc.ExtractAndSave(context.Background(), transport.ExtractRequest{Text: "..."}); err == nil {
		t.Fatal("expected validation error for nameless candidate")
	}
}

func TestDiscoverAndSave(t *testing.T) {
	store := newFakeStore()
	extractor := &fakeExtractor{many: []ports.ExtractedLead{
		{Name: "Ivy Chen", Email: "ivy@example.com", Location: "Vienna, VA", ZipCode: "22180", ServiceType: "bathroom remodel"},
		{Name: "Ivy Chen", Email: "ivy@example.com", Location: "Vienna, VA", ZipCode: "22180", ServiceType: "bathroom remodel"},
		{Name: "", Location: "Nowhere, VA"},
		{Name: "Jon Price", Phone: "804-555-0142", Location: "Richmond, VA", ZipCode: "23220", ServiceType: "painting"},
	}}
	svc, _ := newTestService(store, extractor)

	resp, err := svc.DiscoverAndSave(context.Background(), transport.DiscoverRequest{Text: "..."})
	if err != nil {
		t.Fatalf("DiscoverAndSave: %v", err)
	}
	if len(resp.Saved) != 2 {
		t.Errorf("saved = %d, want 2", len(resp.Saved))
	}
	if len(resp.Duplicates) != 1 || resp.Duplicates[0].MatchType != "email" {
		t.Errorf("duplicates = %v, want one email match", resp.Duplicates)
	}
	if len(resp.Rejected) != 1 {
		t.Errorf("rejected = %v, want one nameless rejection", resp.Rejected)
	}
}

func TestDiscoverAndSaveMatchesExistingLeads(t *testing.T) {
	store := newFakeStore()
	extractor := &fakeExtractor{many: []ports.ExtractedLead{
		{Name: "Kim Soto", Email: "kim@example.com", Location: "Reston, VA", ZipCode: "20190", ServiceType: "siding"},
	}}
	svc, _ := newTestService(store, extractor)

	if _, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:        "Kimberly Soto",
		Email:       "kim@example.com",
		Location:    "Reston, VA",
		ZipCode:     "20190",
		ServiceType: "Siding Replacement",
	}); err != nil {
		t.Fatalf("seed Create: %v", err)
	}

	resp, err := svc.DiscoverAndSave(context.Background(), transport.DiscoverRequest{Text: "..."})
	if err != nil {
		t.Fatalf("DiscoverAndSave: %v", err)
	}
	if len(resp.Saved) != 0 || len(resp.Duplicates) != 1 {
		t.Fatalf("saved=%d duplicates=%d, want 0/1", len(resp.Saved), len(resp.Duplicates))
	}
}

func TestSweepStalePublishesBatchEvent(t *testing.T) {
	store := newFakeStore()
	svc, bus := newTestService(store, nil)

	created, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Name:        "Liam Ortiz",
		Location:    "Charlottesville, VA",
		ZipCode:     "22901",
		ServiceType: "Handyman Services",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	stored := store.leads[created.ID]
	stored.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	store.leads[created.ID] = stored
	bus.published = nil

	ids, err := svc.SweepStale(context.Background())
	if err != nil {
		t.Fatalf("SweepStale: %v", err)
	}
	if len(ids) != 1 || ids[0] != created.ID {
		t.Fatalf("ids = %v, want [%s]", ids, created.ID)
	}
	if names := bus.names(); len(names) != 1 || names[0] != "leads.stale.detected" {
		t.Errorf("published = %v, want [leads.stale.detected]", names)
	}

	// Nothing stale, nothing published.
	if _, err := svc.MarkContacted(context.Background(), created.ID); err != nil {
		t.Fatalf("MarkContacted: %v", err)
	}
	bus.published = nil
	ids, err = svc.SweepStale(context.Background())
	if err != nil {
		t.Fatalf("SweepStale: %v", err)
	}
	if len(ids) != 0 || len(bus.published) != 0 {
		t.Errorf("ids=%v published=%v, want both empty", ids, bus.names())
	}
}
