package camunda

import (
	"context"
	"encoding/json"
	"fmt"

	"diagnostic-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// DecodeVariables unmarshals the job's variable document into dst.
func DecodeVariables(job entities.Job, dst interface{}) error {
	if job.Variables == "" {
		return fmt.Errorf("job %d has no variables", job.Key)
	}
	if err := json.Unmarshal([]byte(job.Variables), dst); err != nil {
		return fmt.Errorf("parse job variables: %w", err)
	}
	return nil
}

// CompleteJob completes job with output as its variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}, log logger.Logger) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		log.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		log.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}

	log.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
}
