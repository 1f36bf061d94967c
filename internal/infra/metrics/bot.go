package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		botRepliesTotal,
		webhookUpdatesTotal,
		outboundSendsTotal,
	)
}

var (
	botRepliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_replies_total",
			Help: "Replies requested from the bot, by channel (api, telegram, discord, polling).",
		},
		[]string{"channel", "success"},
	)

	webhookUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_updates_total",
			Help: "Inbound webhook deliveries by platform and outcome.",
		},
		[]string{"platform", "outcome"}, // outcome: replied, ignored, ping, failed, rejected
	)

	outboundSendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbound_sends_total",
			Help: "Messages pushed to chat platforms.",
		},
		[]string{"platform", "success"},
	)
)

func IncBotReply(channel string, success bool) {
	botRepliesTotal.WithLabelValues(norm(channel), strconv.FormatBool(success)).Inc()
}

func IncWebhookUpdate(platform, outcome string) {
	webhookUpdatesTotal.WithLabelValues(norm(platform), norm(outcome)).Inc()
}

func IncOutboundSend(platform string, success bool) {
	outboundSendsTotal.WithLabelValues(norm(platform), strconv.FormatBool(success)).Inc()
}
