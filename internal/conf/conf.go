// Package conf provides configuration management using Viper.
// It supports loading configuration from YAML files and environment
// variables, with sensible defaults and validation of required fields.
package conf

import (
	"google.golang.org/protobuf/types/known/durationpb"
)

// Bootstrap is the root configuration for the CourtGate service.
type Bootstrap struct {
	Server   *Server
	Data     *Data
	Courts   *Courts
	Fallback *Fallback
	Log      *Log
}

// Server holds transport configuration.
type Server struct {
	Http *Server_HTTP
}

// Server_HTTP holds HTTP listener configuration.
type Server_HTTP struct {
	Network string
	Addr    string
	Timeout *durationpb.Duration
}

// Data holds storage backend configuration.
type Data struct {
	Database *Data_Database
	Redis    *Data_Redis
}

// Data_Database holds the relational database configuration used for the
// request audit log.
type Data_Database struct {
	Driver string
	Source string
}

// Data_Redis holds the Redis configuration used for response caching and
// breaker state mirroring.
type Data_Redis struct {
	Network      string
	Addr         string
	ReadTimeout  *durationpb.Duration
	WriteTimeout *durationpb.Duration
}

// Courts holds upstream court-system integration configuration.
type Courts struct {
	Federal *Courts_Federal
	State   *Courts_State
	Breaker *Courts_Breaker
	Webhook *Courts_Webhook
}

// Courts_Federal configures the federal (PACER-style) gateway client.
type Courts_Federal struct {
	BaseUrl  string
	ApiToken string
	Proxy    string
	Timeout  *durationpb.Duration
}

// Courts_State configures the state court gateway client and the set of
// state jurisdictions this deployment serves.
type Courts_State struct {
	BaseUrl       string
	Jurisdictions []string
	Timeout       *durationpb.Duration
}

// Courts_Breaker configures the circuit breaker registry.
type Courts_Breaker struct {
	FailureThreshold int
	ResetTimeout     *durationpb.Duration
	ResetOnSuccess   bool
}

// Courts_Webhook configures outbound breaker-event notifications.
// An empty URL disables notifications.
type Courts_Webhook struct {
	Url     string
	Timeout *durationpb.Duration
}

// Fallback configures the fallback collection subsystem.
type Fallback struct {
	// ScrapingAllowed lists court identifiers for which scraping has been
	// explicitly permitted. Scraping is default-deny.
	ScrapingAllowed []string
	// ScrapingTargets maps a court identifier to its public docket URL.
	ScrapingTargets map[string]string
	ScrapeTimeout   *durationpb.Duration
	// CanScrape and CanExtractPdf are capability flags resolved at startup.
	CanScrape     bool
	CanExtractPdf bool
	// ManualEntryDeadline is how long a pending manual entry stays open.
	ManualEntryDeadline *durationpb.Duration
}

// Log holds logging configuration.
type Log struct {
	Level      string
	Format     string
	Env        string
	OutputFile string
}
