package streetgraph

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streetgraph_actions_total",
		Help: "Actions applied to the map, by kind & direction (perform, rejected, undo, redo)",
	}, []string{"action", "direction"})

	tracesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streetgraph_face_traces_total",
		Help: "Face traces started from the editor, by outcome",
	}, []string{"outcome"})

	modeSwitchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streetgraph_mode_switches_total",
		Help: "Mode activations, by mode entered",
	}, []string{"mode"})

	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streetgraph_commands_total",
		Help: "Commands executed, by command & result",
	}, []string{"command", "result"})
)
