// Package lifecycle holds the order status transition graph as data so the
// admin can either relay every change to the backend or pre-validate it.
package lifecycle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"storefront-admin/models"
)

type Policy string

const (
	// PolicyRelay forwards every enumerated status; the backend decides.
	PolicyRelay Policy = "relay"
	// PolicyStrict refuses edges missing from the graph before any call.
	PolicyStrict Policy = "strict"
)

var ErrTransitionNotAllowed = errors.New("order status transition not allowed")

// Graph maps a status to the statuses it may move to.
type Graph map[models.OrderStatus][]models.OrderStatus

func DefaultGraph() Graph {
	return Graph{
		models.StatusPending: {
			models.StatusPaymentReviewRequested,
			models.StatusPaid,
			models.StatusCancelled,
		},
		models.StatusPaymentReviewRequested: {
			models.StatusPending,
			models.StatusPaid,
			models.StatusCancelled,
		},
		models.StatusPaid:      {models.StatusShipped, models.StatusCancelled},
		models.StatusShipped:   {models.StatusCompleted},
		models.StatusCompleted: {},
		models.StatusCancelled: {},
	}
}

// LoadGraph reads a JSON object of status -> [status...].
func LoadGraph(path string) (Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transition graph: %w", err)
	}
	var decoded map[string][]string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("parse transition graph: %w", err)
	}

	g := make(Graph, len(decoded))
	for from, targets := range decoded {
		fromStatus, err := models.ParseOrderStatus(from)
		if err != nil {
			return nil, err
		}
		edges := make([]models.OrderStatus, 0, len(targets))
		for _, to := range targets {
			toStatus, err := models.ParseOrderStatus(to)
			if err != nil {
				return nil, err
			}
			edges = append(edges, toStatus)
		}
		g[fromStatus] = edges
	}
	return g, nil
}

func (g Graph) Allows(from, to models.OrderStatus) bool {
	for _, candidate := range g[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

func ParsePolicy(raw string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(raw))); p {
	case PolicyRelay, PolicyStrict:
		return p, nil
	case "":
		return PolicyRelay, nil
	default:
		return "", fmt.Errorf("unknown transition policy %q", raw)
	}
}

type Validator struct {
	Policy Policy
	Graph  Graph
}

func NewValidator(policy Policy, graph Graph) *Validator {
	if graph == nil {
		graph = DefaultGraph()
	}
	return &Validator{Policy: policy, Graph: graph}
}

// Check decides whether a change may be sent to the backend at all.
func (v *Validator) Check(from, to models.OrderStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidStatus, to)
	}
	if v.Policy != PolicyStrict || from == to {
		return nil
	}
	if !v.Graph.Allows(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, from, to)
	}
	return nil
}

// Targets lists what the status control should offer for an order
// currently at from, in lifecycle order.
func (v *Validator) Targets(from models.OrderStatus) []models.OrderStatus {
	targets := make([]models.OrderStatus, 0, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		if s == from {
			continue
		}
		if v.Policy == PolicyStrict && !v.Graph.Allows(from, s) {
			continue
		}
		targets = append(targets, s)
	}
	return targets
}
