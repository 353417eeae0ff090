package viewer

import (
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildURI(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "simple file path",
			path: "/tmp/scheme.png",
			want: "file:///tmp/scheme.png",
		},
		{
			name: "path with spaces",
			path: "/tmp/my schemes/orders.png",
			want: "file:///tmp/my%20schemes/orders.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildURI(tt.path)
			if err != nil {
				t.Fatalf("BuildURI() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildURI() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildURI_Relative(t *testing.T) {
	got, err := BuildURI("scheme.png")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "file:///") || !strings.HasSuffix(got, "/scheme.png") {
		t.Errorf("BuildURI() = %q, want an absolute file URI", got)
	}
}

func TestOpen_Command(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantErr  bool
	}{
		{goos: "darwin", wantName: "open"},
		{goos: "linux", wantName: "xdg-open"},
		{goos: "windows", wantName: "cmd"},
		{goos: "plan9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			var ran *exec.Cmd
			v := &Viewer{goos: tt.goos, run: func(c *exec.Cmd) error { ran = c; return nil }}

			err := v.Open(filepath.Join("/tmp", "scheme.png"))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if ran == nil || filepath.Base(ran.Args[0]) != tt.wantName {
				t.Fatalf("ran %v, want %s", ran, tt.wantName)
			}
			if last := ran.Args[len(ran.Args)-1]; last != "file:///tmp/scheme.png" {
				t.Errorf("uri arg = %q", last)
			}
		})
	}
}
