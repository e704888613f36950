package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CommandsHandled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "minetrade",
		Name:      "commands_handled_total",
		Help:      "Slash commands handled, by command name.",
	}, []string{"command"})

	RolesGranted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "minetrade",
		Name:      "reaction_roles_granted_total",
		Help:      "Roles granted through reaction-role messages.",
	})

	RolesRevoked = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "minetrade",
		Name:      "reaction_roles_revoked_total",
		Help:      "Roles revoked through reaction-role messages.",
	})

	ListingsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "minetrade",
		Name:      "listings_created_total",
		Help:      "Account listings posted via /list.",
	})
)

func init() {
	prometheus.MustRegister(CommandsHandled, RolesGranted, RolesRevoked, ListingsCreated)
}
