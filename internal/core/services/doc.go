// Package services implements the audit pipeline: retried GraphQL requests,
// repository pagination, ownership attribution, technology classification
// and the final aggregation. Services depend only on the driven ports and
// are wired together by the AuditService orchestrator.
package services
