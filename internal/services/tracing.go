package service

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("github.com/aaravmahajanofficial/stock-manager/internal/services")
