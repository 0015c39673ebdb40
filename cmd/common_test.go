package cmd

import (
	"testing"

	"SpaceColony/internal/shared/gameconfig/colony"
	"SpaceColony/internal/shared/serverconfig"
)

func TestReadConfig(t *testing.T) {
	if err := serverconfig.Load("", nil); err != nil {
		t.Fatalf("load conf.yml: %v", err)
	}
	conf := serverconfig.Get()
	if conf.Colony.Port == 0 || conf.Storage.Driver == "" {
		t.Fatalf("conf 未解析: %+v", conf)
	}
	switch conf.Storage.Driver {
	case "memory", "mongodb", "mysql":
	default:
		t.Fatalf("未知存储驱动 %q", conf.Storage.Driver)
	}

	rules, err := colony.Load(conf.Logic.GameConfig)
	if err != nil {
		t.Fatalf("load gameconfig: %v", err)
	}
	if rules.Travel == nil || len(rules.ShipCosts) == 0 {
		t.Fatalf("gameconfig 不完整")
	}
}
