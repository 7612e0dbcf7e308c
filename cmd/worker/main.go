package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bookado/attendant/internal/ai"
	"github.com/bookado/attendant/internal/attendant"
	"github.com/bookado/attendant/internal/billing"
	"github.com/bookado/attendant/internal/config"
	"github.com/bookado/attendant/internal/db"
	"github.com/bookado/attendant/internal/store/rabbitmq"
	"github.com/bookado/attendant/internal/store/redisstore"
	"github.com/bookado/attendant/internal/wa"
)

type turnMsg struct {
	JobID string `json:"job_id"`
}

func workerConcurrency() int {
	v := os.Getenv("WORKER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rds.Close()

	// Provider registry (tool-capable providers only)
	reg := ai.NewRegistry()
	reg.Register("openrouter", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := model
		if m == "" {
			m = cfg.OpenRouterModel
		}
		return ai.NewOpenRouterProvider(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, m,
			cfg.OpenRouterSiteURL, cfg.OpenRouterAppName), nil
	})
	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := model
		if m == "" {
			m = cfg.OllamaModel
		}
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, m), nil
	})

	repo := attendant.NewRepo(gdb)
	billingRepo := billing.NewRepo(gdb)
	meter := billing.NewMeter(billingRepo)
	gate := attendant.NewGate(rds, repo, meter)
	debouncer := attendant.NewDebouncer(rds)
	history := attendant.NewHistory(rds)
	sender := wa.NewClient(cfg.GatewayBaseURL, cfg.GatewayAPIKey)
	injectors := attendant.NewInjectors(repo)

	orch := attendant.NewOrchestrator(attendant.OrchestratorConfig{
		Repo:      repo,
		Gate:      gate,
		Debouncer: debouncer,
		History:   history,
		Registry:  reg,
		Provider:  cfg.AIProvider,
		Model:     "",
		Sender:    sender,
		Injectors: injectors.Registry(),
		Usage:     billingRepo,
		Delay:     cfg.DebounceDelay,
	})

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatal().Err(err).Msg("rabbit dial")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal().Err(err).Msg("rabbit channel")
	}
	defer ch.Close()

	// Args must match the publisher's declaration exactly.
	_, err = ch.QueueDeclare(cfg.RabbitQueue, true, false, false, false, rabbitmq.QueueArgs(cfg.RabbitQueue))
	if err != nil {
		log.Fatal().Err(err).Msg("queue declare")
	}

	concurrency := workerConcurrency()

	if err := ch.Qos(concurrency, 0, false); err != nil {
		log.Fatal().Err(err).Msg("qos")
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("consume")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("queue", cfg.RabbitQueue).Int("concurrency", concurrency).Msg("worker started")

	// worker pool
	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				var m turnMsg
				if err := json.Unmarshal(d.Body, &m); err != nil || m.JobID == "" {
					log.Error().Err(err).Int("worker", workerID).Msg("bad message")
					_ = d.Nack(false, false)
					continue
				}

				start := time.Now()
				if err := handleTurnJob(ctx, orch, repo, m.JobID); err != nil {
					log.Error().Err(err).
						Int("worker", workerID).
						Str("job", m.JobID).
						Dur("cost", time.Since(start)).
						Msg("turn failed")
					_ = d.Nack(false, false)
					continue
				}

				if err := d.Ack(false); err != nil {
					log.Error().Err(err).Int("worker", workerID).Str("job", m.JobID).Msg("ack failed")
				}
			}
		}(i)
	}

	// dispatcher
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				log.Warn().Msg("delivery channel closed")
				time.Sleep(1 * time.Second)
				continue
			}
			jobs <- d
		}
	}
}

// handleTurnJob runs one turn end to end. Errors abort the turn with no
// reply to the contact; the job lands in the DLQ for inspection, never
// retried automatically.
func handleTurnJob(ctx context.Context, orch *attendant.Orchestrator, repo *attendant.Repo, jobID string) error {
	_ = repo.MarkTurnRunning(ctx, jobID)

	j, err := repo.GetTurnJob(ctx, jobID)
	if err != nil {
		return err
	}

	if err := orch.HandleTurn(ctx, j); err != nil {
		_ = repo.MarkTurnFailed(ctx, jobID, err.Error())
		return err
	}

	return repo.MarkTurnSucceeded(ctx, jobID)
}
