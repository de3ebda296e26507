package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// A role holds a token when a policy line grants it directly or grants "*".
const modelText = `[request_definition]
r = sub, act

[policy_definition]
p = sub, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.act == "*" || r.act == p.act)
`

// NewEnforcer builds an empty, adapter-less enforcer. Policies are added in
// memory by the caller.
func NewEnforcer() (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	return casbin.NewSyncedEnforcer(m)
}
