package observability

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrNoRegistry is returned when metrics are written without a Prometheus reader.
var ErrNoRegistry = errors.New("prometheus registry not initialized")

// WriteTextfile writes the gathered metrics in the node-exporter textfile
// format. The file is replaced atomically.
func WriteTextfile(reg *prometheus.Registry, path string) error {
	if reg == nil {
		return ErrNoRegistry
	}

	err := prometheus.WriteToTextfile(path, reg)
	if err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}

	return nil
}
