package desktop

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wall.png")
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestNew tests backend lookup by name.
func TestNew(t *testing.T) {
	for _, name := range Backends() {
		b, err := New(name, NewMockRunner())
		if err != nil {
			t.Fatalf("New(%q) failed: %v", name, err)
		}
		if b.Name() != name {
			t.Errorf("Expected name %s, got %s", name, b.Name())
		}
	}

	if _, err := New("kde", NewMockRunner()); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Expected ErrUnknownBackend, got %v", err)
	}
	if !IsValidBackend("auto") || IsValidBackend("kde") {
		t.Error("IsValidBackend gave an unexpected answer")
	}
}

// TestBackendCommands tests the commands each backend issues.
func TestBackendCommands(t *testing.T) {
	tests := []struct {
		name        string
		output      string
		wantCurrent string
		wantSet     []string
	}{
		{
			name:        BackendXfce,
			output:      "/home/user/old.jpg\n",
			wantCurrent: "/home/user/old.jpg",
			wantSet: []string{
				"xfconf-query --channel xfce4-desktop --property /backdrop/screen0/monitor0/workspace0/last-image --set /walls/new.png",
			},
		},
		{
			name:        BackendGnome,
			output:      "'file:///home/user/my%20old.jpg'\n",
			wantCurrent: "/home/user/my old.jpg",
			wantSet: []string{
				"gsettings set org.gnome.desktop.background picture-uri file:///walls/new.png",
				"gsettings set org.gnome.desktop.background picture-uri-dark file:///walls/new.png",
			},
		},
		{
			name:        BackendHyprpaper,
			output:      "eDP-1 = /home/user/old.jpg\nDP-2 = /home/user/other.jpg\n",
			wantCurrent: "/home/user/old.jpg",
			wantSet: []string{
				"hyprctl hyprpaper unload /walls/new.png",
				"hyprctl hyprpaper preload /walls/new.png",
				"hyprctl hyprpaper wallpaper ,/walls/new.png",
			},
		},
		{
			name:        BackendSwww,
			output:      "eDP-1: 1920x1080, scale: 1, currently displaying: image: /home/user/old.jpg\n",
			wantCurrent: "/home/user/old.jpg",
			wantSet: []string{
				"swww img /walls/new.png --transition-type fade",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewMockRunner()
			runner.RunFunc = func(context.Context, string, ...string) ([]byte, error) {
				return []byte(tt.output), nil
			}
			b, err := New(tt.name, runner)
			if err != nil {
				t.Fatal(err)
			}

			current, err := b.Current(context.Background())
			if err != nil {
				t.Fatalf("Current failed: %v", err)
			}
			if current != tt.wantCurrent {
				t.Errorf("Expected current %q, got %q", tt.wantCurrent, current)
			}

			runner.Calls = nil
			if err := b.Set(context.Background(), "/walls/new.png"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if len(runner.Calls) != len(tt.wantSet) {
				t.Fatalf("Expected %d commands, got %v", len(tt.wantSet), runner.Calls)
			}
			for i, want := range tt.wantSet {
				if got := runner.Calls[i].String(); got != want {
					t.Errorf("Command %d: expected %q, got %q", i, want, got)
				}
			}
		})
	}
}

func TestParseGnomeURI(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"'file:///a/b.jpg'", "/a/b.jpg", false},
		{"\"file:///a/b%20c.jpg\"\n", "/a/b c.jpg", false},
		{"''", "", false},
		{"/plain/path.png", "/plain/path.png", false},
		{"'https://example.com/x.jpg'", "", true},
	}

	for _, tt := range tests {
		got, err := parseGnomeURI(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseGnomeURI(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseGnomeURI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestApply tests that the wallpaper is only set when it changes.
func TestApply(t *testing.T) {
	path := writeTestImage(t)

	t.Run("already current", func(t *testing.T) {
		runner := NewMockRunner()
		runner.RunFunc = func(context.Context, string, ...string) ([]byte, error) {
			return []byte(path + "\n"), nil
		}
		changed, err := Apply(context.Background(), &Xfce{Runner: runner}, path, nil)
		if err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if changed {
			t.Error("Expected no change when wallpaper is already current")
		}
		if runner.CallCount() != 1 {
			t.Errorf("Expected only the read command, got %v", runner.Calls)
		}
	})

	t.Run("different", func(t *testing.T) {
		runner := NewMockRunner()
		runner.RunFunc = func(context.Context, string, ...string) ([]byte, error) {
			return []byte("/somewhere/else.jpg\n"), nil
		}
		changed, err := Apply(context.Background(), &Xfce{Runner: runner}, path, nil)
		if err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if !changed {
			t.Error("Expected wallpaper to change")
		}
		last := runner.LastCall()
		if last.Args[len(last.Args)-1] != path {
			t.Errorf("Expected set with %s, got %s", path, last)
		}
	})

	t.Run("current unreadable", func(t *testing.T) {
		runner := NewMockRunner()
		runner.RunFunc = func(_ context.Context, _ string, args ...string) ([]byte, error) {
			if len(args) == 2 && args[0] == "hyprpaper" && args[1] == "listactive" {
				return nil, errors.New("hyprpaper not running")
			}
			return nil, nil
		}
		changed, err := Apply(context.Background(), &Hyprpaper{Runner: runner}, path, nil)
		if err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if !changed {
			t.Error("Expected wallpaper to be set when current is unknown")
		}
	})

	t.Run("set failure", func(t *testing.T) {
		setErr := errors.New("gsettings failed")
		runner := NewMockRunner()
		runner.RunFunc = func(_ context.Context, _ string, args ...string) ([]byte, error) {
			if args[0] == "set" {
				return nil, setErr
			}
			return []byte("''"), nil
		}
		if _, err := Apply(context.Background(), &Gnome{Runner: runner}, path, nil); !errors.Is(err, setErr) {
			t.Errorf("Expected set error, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		runner := NewMockRunner()
		_, err := Apply(context.Background(), &Swww{Runner: runner}, filepath.Join(t.TempDir(), "nope.png"), nil)
		if err == nil {
			t.Fatal("Expected error for missing wallpaper")
		}
		if runner.CallCount() != 0 {
			t.Errorf("Expected no commands for missing file, got %v", runner.Calls)
		}
	})
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		desktop   string
		processes []string
		want      string
		wantErr   bool
	}{
		{"xfce env", "XFCE", nil, BackendXfce, false},
		{"ubuntu gnome env", "ubuntu:GNOME", nil, BackendGnome, false},
		{"hyprland with hyprpaper", "Hyprland", []string{"Hyprland", "hyprpaper"}, BackendHyprpaper, false},
		{"hyprland with swww", "Hyprland", []string{"Hyprland", "swww-daemon"}, BackendSwww, false},
		{"no env, xfdesktop running", "", []string{"bash", "xfdesktop"}, BackendXfce, false},
		{"nothing", "KDE", []string{"plasmashell"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Detector{
				Getenv: func(key string) string {
					if key == "XDG_CURRENT_DESKTOP" {
						return tt.desktop
					}
					return ""
				},
				Processes: func() ([]string, error) { return tt.processes, nil },
			}
			got, err := d.Detect()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Detect() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	d := &Detector{
		Getenv:    func(string) string { return "" },
		Processes: func() ([]string, error) { return nil, errors.New("no /proc") },
	}

	b, err := Resolve("swww", NewMockRunner(), d)
	if err != nil || b.Name() != BackendSwww {
		t.Errorf("Expected explicit swww backend, got %v, %v", b, err)
	}

	if _, err := Resolve("auto", NewMockRunner(), d); err == nil || !strings.Contains(err.Error(), "no /proc") {
		t.Errorf("Expected detection error, got %v", err)
	}
}

func TestExecRunner(t *testing.T) {
	r := NewExecRunner()
	if _, err := r.Run(context.Background(), "duskpaper-command-that-does-not-exist"); err == nil {
		t.Error("Expected error for missing command")
	}
}
