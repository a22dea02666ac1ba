package background

import (
	"context"
	"log"
	"sync"
	"time"

	"shutterdesk/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler owns the recurring maintenance jobs: the nightly plan
// downgrade, the hourly overdue-invoice sweep, and daily payment reminders.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	downgradeSvc *jobs.PlanDowngradeService
	overdueSvc   *jobs.InvoiceOverdueService
	reminderSvc  *jobs.PaymentReminderService
	registered   map[string]gocron.Job
	mu           sync.RWMutex
}

func NewJobScheduler(downgradeSvc *jobs.PlanDowngradeService, overdueSvc *jobs.InvoiceOverdueService,
	reminderSvc *jobs.PaymentReminderService) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		downgradeSvc: downgradeSvc,
		overdueSvc:   overdueSvc,
		reminderSvc:  reminderSvc,
		registered:   make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Plan downgrade - nightly at 02:00
	downgradeJob, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(2, 0, 0))),
		gocron.NewTask(js.runPlanDowngrade),
		gocron.WithName("plan-downgrade"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create plan downgrade job: %v", err)
	} else {
		js.registered["plan-downgrade"] = downgradeJob
	}

	// Overdue invoice sweep - every hour
	overdueJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.runOverdueSweep),
		gocron.WithName("invoice-overdue-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create overdue sweep job: %v", err)
	} else {
		js.registered["invoice-overdue-sweep"] = overdueJob
	}

	// Payment reminders - daily at 09:00
	reminderJob, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(9, 0, 0))),
		gocron.NewTask(js.runPaymentReminders),
		gocron.WithName("payment-reminders"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create payment reminder job: %v", err)
	} else {
		js.registered["payment-reminders"] = reminderJob
	}

	log.Printf("Registered %d background jobs", len(js.registered))
}

func (js *JobScheduler) runPlanDowngrade() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := js.downgradeSvc.Run(ctx); err != nil {
		log.Printf("Plan downgrade job failed: %v", err)
	}
}

func (js *JobScheduler) runOverdueSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := js.overdueSvc.Run(ctx); err != nil {
		log.Printf("Overdue sweep job failed: %v", err)
	}
}

func (js *JobScheduler) runPaymentReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	sent, err := js.reminderSvc.Run(ctx)
	if err != nil {
		log.Printf("Payment reminder job failed: %v", err)
		return
	}
	if sent > 0 {
		log.Printf("Sent %d payment reminders", sent)
	}
}
