// Package metrics defines and registers all custom Prometheus metrics for the
// menu API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "menuapi"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts access tokens handed out.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of access tokens issued.",
	},
)

// AuthorizationsTotal counts guard decisions.
// Label:
//   - result: "allowed", "malformed", "signature_invalid", "expired",
//     "subject_unresolved", "disabled" or "error"
var AuthorizationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorizations_total",
		Help:      "Total number of authorization checks, by outcome.",
	},
	[]string{"result"},
)

// PasswordRehashTotal counts background digest upgrades.
// Label:
//   - result: "upgraded", "dropped" or "error"
var PasswordRehashTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_rehash_total",
		Help:      "Total number of password digest upgrades attempted, by result.",
	},
	[]string{"result"},
)

// ── Menu metrics ──────────────────────────────────────────────────────────────

// MenuOperationsTotal counts menu operations that reached the store.
// Labels:
//   - op: "list", "get", "add", "rename" or "remove"
//   - result: "ok" or "error"
var MenuOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "menu_operations_total",
		Help:      "Total number of menu operations, by operation and result.",
	},
	[]string{"op", "result"},
)
