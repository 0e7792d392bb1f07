package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/brechoria/brecho-api/internal/application/service"
	"github.com/brechoria/brecho-api/pkg/apperror"
)

// Scheduler drives the periodic jobs: the credit expiration sweep, the
// monthly credit cycle, and the overnight drawer force-close. Each job
// runs in its own transaction; a failing job is logged and retried on
// the next tick, the scheduler itself never stops.
type Scheduler struct {
	creditService *service.CreditService
	drawerService *service.DrawerService
	sweepInterval time.Duration
	stop          chan struct{}
	done          chan struct{}
}

// New creates a scheduler
func New(creditService *service.CreditService, drawerService *service.DrawerService, sweepInterval time.Duration) *Scheduler {
	if sweepInterval <= 0 {
		sweepInterval = 30 * time.Minute
	}
	return &Scheduler{
		creditService: creditService,
		drawerService: drawerService,
		sweepInterval: sweepInterval,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start launches the scheduler loop in a goroutine
func (s *Scheduler) Start() {
	go s.run()
	log.Printf("Scheduler started (sweep every %s)", s.sweepInterval)
}

// Stop shuts the scheduler down and waits for the loop to exit
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
	log.Println("Scheduler stopped")
}

func (s *Scheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	// First pass right away so a restart does not postpone overdue work.
	s.tick()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stop:
			return
		}
	}
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s.runSweep(ctx)
	s.runMonthlyCycle(ctx)
	s.runDrawerForceClose(ctx)
}

func (s *Scheduler) runSweep(ctx context.Context) {
	expired, err := s.creditService.RunDailySweep(ctx)
	if err != nil {
		log.Printf("Credit expiration sweep failed: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("Credit expiration sweep: %d grants expired", expired)
	}
}

func (s *Scheduler) runMonthlyCycle(ctx context.Context) {
	result, err := s.creditService.RunMonthlyCycle(ctx, false)
	if err != nil {
		// "Not due" is the normal outcome of most ticks.
		if appErr := apperror.GetAppError(err); appErr.Code == 409 {
			return
		}
		log.Printf("Monthly credit cycle failed: %v", err)
		return
	}
	log.Printf("Monthly credit cycle: %d expired, %d activated", result.Expired, result.Activated)
}

func (s *Scheduler) runDrawerForceClose(ctx context.Context) {
	outcomes, err := s.drawerService.ForceCloseStale(ctx, time.Now())
	if err != nil {
		log.Printf("Drawer force-close failed: %v", err)
		return
	}
	for _, o := range outcomes {
		if o.Closed {
			log.Printf("Force-closed stale drawer session %s (operator %s)", o.SessionID, o.OperatorID)
		} else {
			log.Printf("Failed to force-close drawer session %s: %s", o.SessionID, o.Error)
		}
	}
}
