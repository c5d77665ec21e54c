package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/schedsim/sim"
)

var (
	listenHost string // Interface to bind
	listenPort int    // Port to bind
)

// serverConfig holds what the HTTP handlers fall back to when a request leaves it out.
type serverConfig struct {
	Params    sim.Params
	Timeout   time.Duration
	Criterion sim.Criterion
}

// scheduleRequest is the body of POST /api/v1/schedule.
type scheduleRequest struct {
	Policy    string            `json:"policy"`
	Params    *sim.Params       `json:"params"`
	Processes []sim.ProcessSpec `json:"processes"`
}

// compareRequest is the body of POST /api/v1/compare.
type compareRequest struct {
	Policies  []string          `json:"policies"`
	Params    *sim.Params       `json:"params"`
	Processes []sim.ProcessSpec `json:"processes"`
	Criterion string            `json:"criterion"`
	TimeoutMs int64             `json:"timeout_ms"`
}

// predictRequest is the body of POST /api/v1/predict.
type predictRequest struct {
	Processes []sim.ProcessSpec `json:"processes"`
}

// schedulerHandler serves the simulator over HTTP. Every response carries a run_id.
type schedulerHandler struct {
	config serverConfig
}

func newServer(config serverConfig) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(func(c *fiber.Ctx) error {
		started := time.Now()
		err := c.Next()
		logrus.Infof("%s %s -> %d (%v)", c.Method(), c.Path(), c.Response().StatusCode(), time.Since(started))
		return err
	})

	h := &schedulerHandler{config: config}
	v1 := app.Group("/api").Group("/v1")
	{
		v1.Get("/policies", h.Policies)
		v1.Post("/schedule", h.Schedule)
		v1.Post("/compare", h.Compare)
		v1.Post("/predict", h.Predict)
	}
	return app
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sim.ErrInvalidProcessInput),
		errors.Is(err, sim.ErrInvalidParams),
		errors.Is(err, sim.ErrUnknownPolicy):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, runID string, status int, err error) error {
	logrus.Warnf("run %s: %v", runID, err)
	return c.Status(status).JSON(fiber.Map{"run_id": runID, "error": err.Error()})
}

func (h *schedulerHandler) Policies(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"run_id":   uuid.NewString(),
		"policies": sim.PolicyNames(),
		"builtin":  sim.BuiltinPolicyNames(),
		"plugins":  sim.PluginNames(),
	})
}

func (h *schedulerHandler) Schedule(c *fiber.Ctx) error {
	runID := uuid.NewString()
	var req scheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, runID, fiber.StatusBadRequest, fmt.Errorf("invalid request format: %w", err))
	}
	if req.Policy == "" {
		req.Policy = sim.PolicyFCFS
	}
	res, err := sim.RunPolicy(req.Policy, req.Processes, mergeParams(h.config.Params, req.Params))
	if res == nil {
		return fail(c, runID, statusFor(err), err)
	}
	// Non-convergence still answers 200; the report says converged=false.
	return c.JSON(newRunReport(runID, req.Policy, res))
}

func (h *schedulerHandler) Compare(c *fiber.Ctx) error {
	runID := uuid.NewString()
	var req compareRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, runID, fiber.StatusBadRequest, fmt.Errorf("invalid request format: %w", err))
	}
	best := h.config.Criterion
	if req.Criterion != "" {
		best = sim.Criterion(req.Criterion)
	}
	if !sim.ValidCriteria[best] {
		return fail(c, runID, fiber.StatusBadRequest, fmt.Errorf("unknown criterion %q", best))
	}
	budget := h.config.Timeout
	if req.TimeoutMs > 0 {
		budget = time.Duration(req.TimeoutMs) * time.Millisecond
	}

	ctx, cancel := context.WithTimeout(context.Background(), budget)
	defer cancel()
	comps, err := sim.Compare(ctx, req.Processes, mergeParams(h.config.Params, req.Params), req.Policies)
	if err != nil {
		return fail(c, runID, statusFor(err), err)
	}
	return c.JSON(newComparisonReport(runID, comps, best))
}

func (h *schedulerHandler) Predict(c *fiber.Ctx) error {
	runID := uuid.NewString()
	var req predictRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, runID, fiber.StatusBadRequest, fmt.Errorf("invalid request format: %w", err))
	}
	p, err := newPrediction(runID, req.Processes)
	if err != nil {
		return fail(c, runID, statusFor(err), err)
	}
	return c.JSON(p)
}

// serveCmd exposes the simulator as an HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulator over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		cfg := mustLoadDefaults(cmd)
		config := serverConfig{
			Params:    resolveParams(cmd, cfg, nil),
			Timeout:   resolveTimeout(cmd, cfg),
			Criterion: resolveCriterion(cmd, cfg),
		}
		if !sim.ValidCriteria[config.Criterion] {
			logrus.Fatalf("Invalid criterion: %s", config.Criterion)
		}
		app := newServer(config)

		go func() {
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			logrus.Info("Shutting down")
			if err := app.Shutdown(); err != nil {
				logrus.Errorf("shutdown: %v", err)
			}
		}()

		addr := fmt.Sprintf("%s:%d", listenHost, listenPort)
		logrus.Infof("Listening on %s", addr)
		if err := app.Listen(addr); err != nil {
			logrus.Fatalf("server stopped: %v", err)
		}
	},
}

func init() {
	addParamFlags(serveCmd)
	serveCmd.Flags().StringVar(&listenHost, "host", "", "Interface to bind (default all)")
	serveCmd.Flags().IntVar(&listenPort, "port", 9095, "Port to listen on")
	serveCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Default wall-clock budget for /compare")
	serveCmd.Flags().StringVar(&criterion, "best", string(sim.CriterionWait), "Default criterion for /compare")

	rootCmd.AddCommand(serveCmd)
}
