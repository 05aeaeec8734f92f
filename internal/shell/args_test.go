package shell

import (
	"reflect"
	"testing"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		tokens  []string
		want    Args
		wantPos []string
	}{
		{
			name:   "long flag with equals",
			tokens: []string{"--view-mode=audit"},
			want:   Args{"view-mode": "audit"},
		},
		{
			name:   "long flag with separate value",
			tokens: []string{"--purpose", "FS-QUERY-7701"},
			want:   Args{"purpose": "FS-QUERY-7701"},
		},
		{
			name:   "bare long flag",
			tokens: []string{"--compliance-check"},
			want:   Args{"compliance-check": ""},
		},
		{
			name:   "short flag with value",
			tokens: []string{"-p", "SYS-HEALTH-0101"},
			want:   Args{"p": "SYS-HEALTH-0101"},
		},
		{
			name:   "bundled short flags",
			tokens: []string{"-cf"},
			want:   Args{"c": "", "f": ""},
		},
		{
			name:    "positionals mixed with flags",
			tokens:  []string{"/var/log", "--view-mode=standard", "-p", "FS-QUERY-7701"},
			want:    Args{"view-mode": "standard", "p": "FS-QUERY-7701"},
			wantPos: []string{"/var/log"},
		},
		{
			name:   "flag before another flag takes no value",
			tokens: []string{"--force", "--auth-code=HALT_SYS_MOD_123"},
			want:   Args{"force": "", "auth-code": "HALT_SYS_MOD_123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, pos := ParseArgs(tt.tokens)
			if !reflect.DeepEqual(args, tt.want) {
				t.Errorf("args = %v, want %v", args, tt.want)
			}
			if !reflect.DeepEqual(pos, tt.wantPos) {
				t.Errorf("positional = %v, want %v", pos, tt.wantPos)
			}
		})
	}
}

func TestArgsAccessors(t *testing.T) {
	args := Args{"p": "CODE-1", "c": ""}

	if got := args.Get("purpose", "p"); got != "CODE-1" {
		t.Errorf("Get = %q, want CODE-1", got)
	}
	if !args.Has("c") || !args.Has("compliance-check", "c") {
		t.Error("Has must match any listed key")
	}
	if args.Has("force") {
		t.Error("Has must not match absent keys")
	}
}
