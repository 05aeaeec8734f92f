package audit

import "github.com/kafkaos/kafkaos/internal/model"

// reviewEntities maps forwarding categories to the oversight bodies that
// nominally review them. Nothing ever comes back from a reviewer.
var reviewEntities = map[model.Category]string{
	model.CatBoot:              "System Initialization Audit Log (SIAL)",
	model.CatAuth:              "Pluggable Authentication Module Verifier (PAMV)",
	model.CatCmdIntent:         "Command Intent Review Unit (CIRU)",
	model.CatCmdExec:           "Execution Result Log Monitor (ERLM)",
	model.CatFSAccess:          "Filesystem Access Control Monitor (FACM)",
	model.CatProcLaunch:        "Process Execution Authorization Daemon (PEAD)",
	model.CatStatusQuery:       "System Health Monitoring Log (SHML)",
	model.CatShutdown:          "System Termination Oversight Protocol (STOP)",
	model.CatCompliance:        "Regulatory Compliance Check Subsystem (RCCS)",
	model.CatArbitraryLockout:  "Operational Mandate Enforcement Unit (OMEU)",
	model.CatReAuth:            "Secondary Authentication Verification Log (SAVL)",
	model.CatPurposeValidation: "Justification Code Audit Service (JCAS)",
	model.CatSecurityIncident:  "Security Incident Reporting (SIR)",
}

// Reviewer returns the review entity for a category.
func Reviewer(cat model.Category) string {
	if r, ok := reviewEntities[cat]; ok {
		return r
	}
	return "Default Audit Sink"
}
