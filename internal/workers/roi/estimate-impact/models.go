package estimateimpact

import (
	"leadflow/internal/common/database"
	"leadflow/internal/common/logger"
	"leadflow/internal/roi"
)

type Input struct {
	Industry    string     `json:"industry"`
	Values      roi.Values `json:"values,omitempty"`
	UseDefaults bool       `json:"useDefaults,omitempty"`
}

type Output struct {
	Industry  roi.Industry  `json:"industry"`
	Label     string        `json:"label"`
	Values    roi.Values    `json:"values"`
	Impact    roi.Impact    `json:"impact"`
	Formatted roi.Formatted `json:"formatted"`
	Cached    bool          `json:"cached"`
}

type ServiceDependencies struct {
	Logger logger.Logger
	// Redis is optional; without it every estimate is computed directly.
	Redis  *database.RedisClient
	Engine *roi.Engine
}
