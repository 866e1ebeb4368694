package service

import (
	"fmt"
	"strings"

	"github.com/buildtrack/registrar/cmd/registrar/models"
	"github.com/google/cel-go/cel"
)

// PolicyEvaluator admits or rejects payloads using a CEL (Common
// Expression Language) expression configured by the operator, e.g.
//
//	payload.groupId.startsWith("com.example.") && !payload.snapshot
//
// The expression is compiled once at startup and evaluated before any
// transaction is opened; a rejected payload never touches the store.
type PolicyEvaluator struct {
	prg cel.Program
}

// NewPolicyEvaluator compiles expr. An empty expression yields a nil
// evaluator, which admits everything.
func NewPolicyEvaluator(expr string) (*PolicyEvaluator, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("payload", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("create CEL env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile policy expression: %w", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create CEL program: %w", err)
	}

	return &PolicyEvaluator{prg: prg}, nil
}

// Admit evaluates the policy against req. A nil evaluator admits
// everything.
func (e *PolicyEvaluator) Admit(req *models.RegistrationRequest) (bool, error) {
	if e == nil {
		return true, nil
	}

	payload := map[string]interface{}{
		"groupId":     req.GroupID,
		"artifactId":  req.ArtifactID,
		"classifier":  req.Classifier,
		"extension":   req.Extension,
		"baseVersion": req.BaseVersion,
		"version":     req.Version,
		"url":         req.URL,
	}
	if req.Snapshot != nil {
		payload["snapshot"] = *req.Snapshot
	}

	out, _, err := e.prg.Eval(map[string]interface{}{
		"payload": payload,
	})
	if err != nil {
		return false, fmt.Errorf("CEL evaluation error: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("policy expression did not return boolean, got %T", out.Value())
	}

	return result, nil
}
