package exports

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/erikmagkekse/dshare/utils"
	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestReload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		m := &utils.MockRunner{}
		e := NewExportfs("exportfs", m)

		if err := e.Reload(context.Background()); err != nil {
			t.Fatalf("Reload() error: %v", err)
		}
		if got := strings.Join(m.Calls[0], " "); got != "exportfs -rav" {
			t.Errorf("expected 'exportfs -rav', got: %s", got)
		}
	})

	t.Run("error", func(t *testing.T) {
		m := &utils.MockRunner{Err: fmt.Errorf("exportfs failed")}
		e := NewExportfs("exportfs", m)

		if err := e.Reload(context.Background()); err == nil {
			t.Fatal("Reload() should return error")
		}
	})
}

func TestActive(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		m := &utils.MockRunner{Err: fmt.Errorf("exportfs failed")}
		e := NewExportfs("exportfs", m)

		active, err := e.Active(context.Background())
		if err == nil {
			t.Fatal("Active() should return error")
		}
		if active != nil {
			t.Errorf("Active() should return nil on error, got: %v", active)
		}
	})

	t.Run("success", func(t *testing.T) {
		m := &utils.MockRunner{Out: "/srv/share\t192.168.122.0/24(sync,wdelay,hide,no_subtree_check)\n"}
		e := NewExportfs("exportfs", m)

		active, err := e.Active(context.Background())
		if err != nil {
			t.Fatalf("Active() error: %v", err)
		}
		if len(active) != 1 || active[0] != (ExportInfo{Path: "/srv/share", Client: "192.168.122.0/24"}) {
			t.Errorf("unexpected exports: %+v", active)
		}
	})
}

func TestParseActive(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []ExportInfo
	}{
		{
			name:   "empty output",
			output: "",
			want:   nil,
		},
		{
			// /data/vol1  10.0.0.1(rw,no_root_squash)
			name:   "single line export",
			output: "/data/vol1\t10.0.0.1(rw,no_root_squash)",
			want:   []ExportInfo{{Path: "/data/vol1", Client: "10.0.0.1"}},
		},
		{
			// /data/very/long/path/that/wraps
			//         10.0.0.2(rw,no_root_squash)
			name: "multiline long path",
			output: strings.Join([]string{
				"/data/very/long/path/that/wraps",
				"\t\t10.0.0.2(rw,no_root_squash)",
			}, "\n"),
			want: []ExportInfo{{Path: "/data/very/long/path/that/wraps", Client: "10.0.0.2"}},
		},
		{
			name: "mixed single and multiline",
			output: strings.Join([]string{
				"/short\t10.0.0.1(rw)",
				"/very/long/path/name",
				"\t\t10.0.0.2(rw)",
				"/another\t<world>(rw)",
			}, "\n"),
			want: []ExportInfo{
				{Path: "/short", Client: "10.0.0.1"},
				{Path: "/very/long/path/name", Client: "10.0.0.2"},
				{Path: "/another", Client: "<world>"},
			},
		},
		{
			name: "blank lines ignored",
			output: strings.Join([]string{
				"",
				"/data\t10.0.0.1(rw)",
				"",
			}, "\n"),
			want: []ExportInfo{{Path: "/data", Client: "10.0.0.1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseActive(tt.output)
			if len(got) != len(tt.want) {
				t.Fatalf("parseActive() returned %d exports, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("export[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
