package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"evently/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeEventRepo is an in-memory EventRepository. It stores copies so callers
// cannot mutate stored rows, and joins summaries from the fake category and
// user repos on read.
type fakeEventRepo struct {
	byID       map[string]domain.Event
	nextID     int
	categories *fakeCategoryRepo
	users      *fakeUserRepo
	err        error // if set, every call returns it
	updates    int
	deletes    int
}

func newFakeEventRepo(categories *fakeCategoryRepo, users *fakeUserRepo) *fakeEventRepo {
	return &fakeEventRepo{
		byID:       make(map[string]domain.Event),
		nextID:     1,
		categories: categories,
		users:      users,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	stored := *e
	stored.Category, stored.Organizer = nil, nil
	f.byID[e.ID] = stored
	return nil
}

func (f *fakeEventRepo) join(e domain.Event) *domain.Event {
	if f.categories != nil {
		if c, ok := f.categories.byID[e.CategoryID]; ok {
			e.Category = &domain.CategorySummary{ID: c.ID, Name: c.Name}
		}
	}
	if f.users != nil {
		if u, ok := f.users.byID[e.OrganizerID]; ok {
			e.Organizer = &domain.OrganizerSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
		}
	}
	return &e
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		return f.join(e), nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, pred domain.Predicate, params domain.PaginationParams) ([]*domain.Event, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var matched []*domain.Event
	for _, e := range f.byID {
		joined := f.join(e)
		if pred.Matches(joined) {
			matched = append(matched, joined)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	start := params.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], len(matched), nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	f.updates++
	stored := *e
	stored.Category, stored.Organizer = nil, nil
	f.byID[e.ID] = stored
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	f.deletes++
	delete(f.byID, id)
	return nil
}

// fakeCategoryRepo is an in-memory CategoryRepository.
type fakeCategoryRepo struct {
	byID   map[string]*domain.Category
	nextID int
	err    error
}

func newFakeCategoryRepo(names ...string) *fakeCategoryRepo {
	f := &fakeCategoryRepo{byID: make(map[string]*domain.Category), nextID: 1}
	for _, n := range names {
		_ = f.Create(context.Background(), &domain.Category{Name: n})
	}
	return f
}

func (f *fakeCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Name, c.Name) {
			return domain.ErrDuplicateCategory
		}
	}
	c.ID = fmt.Sprintf("cat-%d", f.nextID)
	f.nextID++
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Category, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategoryRepo) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	var partial *domain.Category
	for _, c := range f.byID {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
		if partial == nil && strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			partial = c
		}
	}
	if partial == nil {
		return nil, domain.ErrNotFound
	}
	return partial, nil
}

// byName returns the id of the category called name.
func (f *fakeCategoryRepo) byName(name string) string {
	for id, c := range f.byID {
		if c.Name == name {
			return id
		}
	}
	return ""
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	byID map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

// fakeRevalidator records revalidated paths.
type fakeRevalidator struct {
	paths []string
	err   error
}

func (f *fakeRevalidator) Revalidate(ctx context.Context, path string) error {
	f.paths = append(f.paths, path)
	return f.err
}

// fakeOrderRepo is an in-memory OrderRepository keyed by StripeID.
type fakeOrderRepo struct {
	mu        sync.Mutex
	byStripe  map[string]domain.Order
	nextID    int
	createErr error
	events    *fakeEventRepo
	users     *fakeUserRepo
}

func newFakeOrderRepo(events *fakeEventRepo, users *fakeUserRepo) *fakeOrderRepo {
	return &fakeOrderRepo{byStripe: make(map[string]domain.Order), nextID: 1, events: events, users: users}
}

func (f *fakeOrderRepo) CreateIfAbsent(ctx context.Context, o *domain.Order) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return false, f.createErr
	}
	if existing, ok := f.byStripe[o.StripeID]; ok {
		*o = existing
		return false, nil
	}
	o.ID = fmt.Sprintf("ord-%d", f.nextID)
	f.nextID++
	f.byStripe[o.StripeID] = *o
	return true, nil
}

func (f *fakeOrderRepo) GetByStripeID(ctx context.Context, stripeID string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.byStripe[stripeID]; ok {
		return &o, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrderRepo) sorted() []domain.Order {
	out := make([]domain.Order, 0, len(f.byStripe))
	for _, o := range f.byStripe {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (f *fakeOrderRepo) ListByEvent(ctx context.Context, eventID, search string) ([]*domain.EventOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.EventOrder, 0)
	for _, o := range f.sorted() {
		if o.EventID != eventID {
			continue
		}
		eo := &domain.EventOrder{ID: o.ID, TotalAmount: o.TotalAmount, CreatedAt: o.CreatedAt, EventID: o.EventID}
		if e, ok := f.events.byID[o.EventID]; ok {
			eo.EventTitle = e.Title
		}
		if u, ok := f.users.byID[o.BuyerID]; ok {
			eo.Buyer = u.FirstName + " " + u.LastName
		}
		if search != "" && !strings.Contains(strings.ToLower(eo.Buyer), strings.ToLower(search)) {
			continue
		}
		out = append(out, eo)
	}
	return out, nil
}

func (f *fakeOrderRepo) ListByBuyer(ctx context.Context, buyerID string, params domain.PaginationParams) ([]*domain.UserOrder, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*domain.UserOrder
	for _, o := range f.sorted() {
		if o.BuyerID != buyerID {
			continue
		}
		uo := &domain.UserOrder{Order: o}
		if e, ok := f.events.byID[o.EventID]; ok {
			uo.Event = f.events.join(e)
		}
		all = append(all, uo)
	}
	start := params.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + params.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

// fakeEmailService records order confirmations.
type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.OrderConfirmationEmailData
	err  error
}

func (f *fakeEmailService) SendOrderConfirmation(ctx context.Context, data *domain.OrderConfirmationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	return f.err
}
