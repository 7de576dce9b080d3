// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"errors"
	"strings"
	"testing"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool   // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool   // "bin arg1 arg2" -> whether RunSilent succeeds
	outputs       map[string]string // "bin arg1 arg2" -> RunOutput stdout
	outputErrs    map[string]error  // "bin arg1 arg2" -> RunOutput error
	lastOutputCmd string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunOutput(name string, args ...string) (string, error) {
	key := name + " " + strings.Join(args, " ")
	m.lastOutputCmd = key
	if err, ok := m.outputErrs[key]; ok {
		return "", err
	}
	return m.outputs[key], nil
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantName string
		wantErr  bool
	}{
		{
			name: "docker available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true},
				runnableCmds:  map[string]bool{"docker info": true},
			},
			wantName: "docker",
		},
		{
			name: "podman fallback when docker missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name: "neither available",
			exec: &mockExecutor{
				availableBins: map[string]bool{},
				runnableCmds:  map[string]bool{},
			},
			wantErr: true,
		},
		{
			name: "docker on PATH but info fails, podman works",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name: "both available, docker preferred",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"docker info": true, "podman info": true},
			},
			wantName: "docker",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(tt.exec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "no container runtime available") {
					t.Errorf("error should mention no runtime available, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rt.Name() != tt.wantName {
				t.Errorf("got runtime %q, want %q", rt.Name(), tt.wantName)
			}
		})
	}
}

func TestImageExists(t *testing.T) {
	tests := []struct {
		name    string
		mkRT    func(*mockExecutor) Runtime
		image   string
		cmds    map[string]bool
		wantErr bool
	}{
		{
			name:  "docker image exists",
			mkRT:  func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			image: "grobid/grobid:0.8.1",
			cmds:  map[string]bool{"docker image inspect grobid/grobid:0.8.1": true},
		},
		{
			name:    "docker image not found",
			mkRT:    func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			image:   "grobid/grobid:0.8.1",
			cmds:    map[string]bool{},
			wantErr: true,
		},
		{
			name:  "podman image exists",
			mkRT:  func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			image: "grobid/grobid:0.8.1",
			cmds:  map[string]bool{"podman image exists grobid/grobid:0.8.1": true},
		},
		{
			name:    "podman image not found",
			mkRT:    func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			image:   "grobid/grobid:0.8.1",
			cmds:    map[string]bool{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{runnableCmds: tt.cmds}
			rt := tt.mkRT(exec)
			err := rt.ImageExists(tt.image)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.image) {
					t.Errorf("error should mention image name, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestStartService(t *testing.T) {
	wantCmd := "docker run --detach --rm --name litreview-grobid --publish 8070:8070 grobid/grobid:0.8.1"

	exec := &mockExecutor{
		outputs: map[string]string{wantCmd: "f2ca1bb6c7e9\n"},
	}
	rt := newDockerRuntime(exec)

	id, err := rt.StartService("grobid/grobid:0.8.1", "litreview-grobid", "8070:8070")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "f2ca1bb6c7e9" {
		t.Errorf("got container ID %q, want %q", id, "f2ca1bb6c7e9")
	}
	if exec.lastOutputCmd != wantCmd {
		t.Errorf("ran %q, want %q", exec.lastOutputCmd, wantCmd)
	}
}

func TestStartServiceFailure(t *testing.T) {
	cmd := "docker run --detach --rm --name litreview-grobid --publish 8070:8070 grobid/grobid:0.8.1"
	exec := &mockExecutor{
		outputErrs: map[string]error{cmd: errors.New("port is already allocated")},
	}
	rt := newDockerRuntime(exec)

	_, err := rt.StartService("grobid/grobid:0.8.1", "litreview-grobid", "8070:8070")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "litreview-grobid") {
		t.Errorf("error should mention container name, got: %v", err)
	}
}

func TestStop(t *testing.T) {
	exec := &mockExecutor{
		runnableCmds: map[string]bool{"docker stop litreview-grobid": true},
	}
	rt := newDockerRuntime(exec)

	if err := rt.Stop("litreview-grobid"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := rt.Stop("missing-container"); err == nil {
		t.Fatal("expected error for unknown container")
	}
}

func TestRunning(t *testing.T) {
	psCmd := "docker ps --filter name=^litreview-grobid$ --format {{.Names}}"

	tests := []struct {
		name    string
		outputs map[string]string
		errs    map[string]error
		want    bool
		wantErr bool
	}{
		{
			name:    "running",
			outputs: map[string]string{psCmd: "litreview-grobid\n"},
			want:    true,
		},
		{
			name:    "not running",
			outputs: map[string]string{psCmd: "\n"},
			want:    false,
		},
		{
			name:    "ps fails",
			errs:    map[string]error{psCmd: errors.New("cannot connect to daemon")},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{outputs: tt.outputs, outputErrs: tt.errs}
			rt := newDockerRuntime(exec)

			got, err := rt.Running("litreview-grobid")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Running() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuntimeName(t *testing.T) {
	exec := &mockExecutor{}
	docker := newDockerRuntime(exec)
	if docker.Name() != "docker" {
		t.Errorf("docker runtime name = %q, want %q", docker.Name(), "docker")
	}
	podman := newPodmanRuntime(exec)
	if podman.Name() != "podman" {
		t.Errorf("podman runtime name = %q, want %q", podman.Name(), "podman")
	}
}
