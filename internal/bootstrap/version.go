package bootstrap

// Version is overridden at build time with -ldflags "-X personal-reply-bot/internal/bootstrap.Version=...".
var Version = "dev"
