package usecase

import (
	"context"
	"errors"
	"sync"

	"course-booking/internal/data/entity"
	"course-booking/pkg/messaging"
)

// memStore is an in-memory lesson store whose single-lesson operations are
// atomic, like the conditional UPDATE they stand in for.
type memStore struct {
	mu      sync.Mutex
	lessons map[int64]*entity.Lesson

	reserveCalls []Reservation
	releaseCalls []Reservation

	reserveErr func(ctx context.Context, id int64) error
	releaseErr func(ctx context.Context, id int64) error
}

func newMemStore(lessons ...entity.Lesson) *memStore {
	s := &memStore{lessons: make(map[int64]*entity.Lesson)}
	for i := range lessons {
		l := lessons[i]
		s.lessons[l.ID] = &l
	}
	return s
}

func (s *memStore) ReserveSpaces(ctx context.Context, id int64, quantity int) (*entity.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reserveCalls = append(s.reserveCalls, Reservation{LessonID: id, Quantity: quantity})
	if s.reserveErr != nil {
		if err := s.reserveErr(ctx, id); err != nil {
			return nil, err
		}
	}

	l, ok := s.lessons[id]
	if !ok || l.Spaces < quantity {
		return nil, nil
	}
	l.Spaces -= quantity
	cp := *l
	return &cp, nil
}

func (s *memStore) ReleaseSpaces(ctx context.Context, id int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseCalls = append(s.releaseCalls, Reservation{LessonID: id, Quantity: quantity})
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.releaseErr != nil {
		if err := s.releaseErr(ctx, id); err != nil {
			return err
		}
	}

	l, ok := s.lessons[id]
	if !ok {
		return errors.New("lesson vanished")
	}
	l.Spaces += quantity
	return nil
}

func (s *memStore) spaces(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lessons[id].Spaces
}

type fakePublisher struct {
	mu       sync.Mutex
	placed   []messaging.OrderPlaced
	drifts   []messaging.InventoryDrift
	placeErr error
}

func (p *fakePublisher) PublishOrderPlaced(_ context.Context, ev messaging.OrderPlaced) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.placed = append(p.placed, ev)
	return p.placeErr
}

func (p *fakePublisher) PublishInventoryDrift(_ context.Context, ev messaging.InventoryDrift) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drifts = append(p.drifts, ev)
	return nil
}

type fakeOrderRepo struct {
	createFunc  func(ctx context.Context, o *entity.Order) error
	findAllFunc func(ctx context.Context) ([]*entity.Order, error)
	created     []*entity.Order
}

func (f *fakeOrderRepo) Create(ctx context.Context, o *entity.Order) error {
	if f.createFunc != nil {
		if err := f.createFunc(ctx, o); err != nil {
			return err
		}
	}
	f.created = append(f.created, o)
	return nil
}

func (f *fakeOrderRepo) FindAll(ctx context.Context) ([]*entity.Order, error) {
	if f.findAllFunc != nil {
		return f.findAllFunc(ctx)
	}
	return f.created, nil
}

type fakeLessonRepo struct {
	*memStore

	findAllFunc    func(ctx context.Context) ([]*entity.Lesson, error)
	searchFunc     func(ctx context.Context, term string, number *float64) ([]*entity.Lesson, error)
	updateFunc     func(ctx context.Context, id int64, patch entity.LessonPatch) (*entity.Lesson, error)
	replaceAllFunc func(ctx context.Context, lessons []*entity.Lesson) (int64, error)
}

func (f *fakeLessonRepo) FindAll(ctx context.Context) ([]*entity.Lesson, error) {
	if f.findAllFunc != nil {
		return f.findAllFunc(ctx)
	}
	return nil, nil
}

func (f *fakeLessonRepo) FindByID(ctx context.Context, id int64) (*entity.Lesson, error) {
	return nil, nil
}

func (f *fakeLessonRepo) Search(ctx context.Context, term string, number *float64) ([]*entity.Lesson, error) {
	if f.searchFunc != nil {
		return f.searchFunc(ctx, term, number)
	}
	return nil, nil
}

func (f *fakeLessonRepo) Update(ctx context.Context, id int64, patch entity.LessonPatch) (*entity.Lesson, error) {
	if f.updateFunc != nil {
		return f.updateFunc(ctx, id, patch)
	}
	return nil, nil
}

func (f *fakeLessonRepo) ReplaceAll(ctx context.Context, lessons []*entity.Lesson) (int64, error) {
	if f.replaceAllFunc != nil {
		return f.replaceAllFunc(ctx, lessons)
	}
	return int64(len(lessons)), nil
}

type fakeCache struct {
	mu          sync.Mutex
	lessons     []*entity.Lesson
	hit         bool
	getErr      error
	gets        int
	sets        int
	invalidated int
}

func (c *fakeCache) GetLessons(context.Context) ([]*entity.Lesson, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.lessons, c.hit, nil
}

func (c *fakeCache) SetLessons(_ context.Context, lessons []*entity.Lesson) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.lessons = lessons
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.hit = false
	c.lessons = nil
	return nil
}
