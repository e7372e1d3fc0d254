package xconf_test

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/omeyang/xevents/pkg/config/xconf"
)

func ExampleLoad() {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/etc/xevents.yaml", []byte(`
engine:
  name: board
  variant: compact
  widths:
    interval: 16
    wait: 8
host:
  poll_interval: 2ms
`), 0o600)

	s, err := xconf.Load(fs, "/etc/xevents.yaml")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(s.Engine.Name, s.Engine.Variant, s.Engine.Widths.MaxWait(), s.Host.PollInterval)
	// Output:
	// board compact 255 2ms
}

func ExampleSettings_Validate() {
	s := xconf.Default()
	s.Engine.Variant = "mini"
	fmt.Println(s.Validate())
	// Output:
	// xconf: invalid settings: engine.variant = "mini"
}
