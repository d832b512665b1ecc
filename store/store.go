package store

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

// Store writes opportunities asynchronously. A full queue drops the record
// rather than stalling the monitor.
type Store struct {
	ctx           context.Context
	wg            sync.WaitGroup
	logger        *log.Logger
	opportunities chan *Opportunity
	crossPools    chan *CrossPoolOpportunity
	saver         Saver
	dropped       uint64
	saved         uint64
}

func NewStore(ctx context.Context, saver Saver) *Store {
	s := &Store{
		ctx:           ctx,
		logger:        log.Default(),
		opportunities: make(chan *Opportunity, 32),
		crossPools:    make(chan *CrossPoolOpportunity, 32),
		saver:         saver,
	}
	return s
}

func (s *Store) SetLogger(logger *log.Logger) {
	s.logger = logger
}

func (s *Store) Start() {
	s.logger.Printf("start store......")
	s.wg.Add(1)
	go s.store()
}

func (s *Store) Stop() {
	s.wg.Wait()
	s.logger.Printf("stop store, saved: %d, dropped: %d", s.Saved(), s.Dropped())
}

func (s *Store) store() {
	defer s.wg.Done()
	for {
		select {
		case op := <-s.opportunities:
			if err := s.saver.SaveOpportunity(op); err != nil {
				s.logger.Printf("save opportunity %d err: %v", op.Id, err)
				continue
			}
			atomic.AddUint64(&s.saved, 1)
		case op := <-s.crossPools:
			if err := s.saver.SaveCrossPoolOpportunity(op); err != nil {
				s.logger.Printf("save cross pool opportunity %d err: %v", op.Id, err)
				continue
			}
			atomic.AddUint64(&s.saved, 1)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Store) StoreOpportunity(op *Opportunity) {
	select {
	case s.opportunities <- op:
	default:
		atomic.AddUint64(&s.dropped, 1)
	}
}

func (s *Store) StoreCrossPoolOpportunity(op *CrossPoolOpportunity) {
	select {
	case s.crossPools <- op:
	default:
		atomic.AddUint64(&s.dropped, 1)
	}
}

func (s *Store) Saved() uint64 {
	return atomic.LoadUint64(&s.saved)
}

func (s *Store) Dropped() uint64 {
	return atomic.LoadUint64(&s.dropped)
}
