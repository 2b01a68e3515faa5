// This file provides control-flow analysis over the step graph.
//
// # Static Analysis
//
// Two checks run over the CFG built from step flow pointers:
//
//   - reachability from flow.entrypoint, reporting W_UNREACHABLE_STEP for
//     every step never visited
//   - cycle detection with a three-colour DFS over every node, reporting
//     E_CYCLE_DETECTED once
//
// Cycle detection stops at the first back-edge it finds. Documents with
// several independent cycles still get a single finding.
//
// Without a usable entrypoint (missing, empty or naming no step) neither
// check runs; the semantic validator already reports the entrypoint.

package validator

import (
	"fmt"

	"github.com/agentkit-dev/agentkit/pkg/logger"
)

var staticLog = logger.New("validator:static")

// AnalyzeStatic runs reachability and cycle detection.
func AnalyzeStatic(doc map[string]any) []Finding {
	g := BuildCFG(doc)

	entry := entrypointOf(doc)
	if entry == "" || !g.HasNode(entry) {
		staticLog.Printf("Skipping static analysis: entrypoint %q is not a step", entry)
		return nil
	}

	var findings []Finding

	visited := reachableFrom(g, entry)
	for _, n := range g.Nodes {
		if !visited[n] {
			findings = append(findings, Finding{
				Code:     CodeUnreachableStep,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("Step '%s' is unreachable from entrypoint '%s'.", n, entry),
				JSONPath: stepPath(n),
			})
		}
	}

	if from, to, found := findCycle(g); found {
		staticLog.Printf("Cycle detected via back-edge %s -> %s", from, to)
		findings = append(findings, Finding{
			Code:     CodeCycleDetected,
			Severity: SeverityError,
			Message:  "Cycle detected in control flow. Cycles are invalid in schema v1.",
			JSONPath: "$.steps",
		})
	}

	return findings
}

// reachableFrom walks the graph with an explicit stack.
func reachableFrom(g *CFG, entry string) map[string]bool {
	visited := make(map[string]bool, len(g.Nodes))
	stack := []string{entry}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n] {
			continue
		}
		visited[n] = true
		stack = append(stack, g.Adjacency[n]...)
	}
	return visited
}

// findCycle returns the first back-edge found by a three-colour DFS started
// from each unvisited node in order.
func findCycle(g *CFG) (from, to string, found bool) {
	const (
		white = iota // unvisited
		gray         // on the current DFS path
		black        // fully explored
	)

	color := make(map[string]int, len(g.Nodes))

	var dfs func(n string) bool
	dfs = func(n string) bool {
		color[n] = gray
		for _, next := range g.Adjacency[n] {
			switch color[next] {
			case gray:
				from, to = n, next
				return true
			case white:
				if dfs(next) {
					return true
				}
			}
		}
		color[n] = black
		return false
	}

	for _, n := range g.Nodes {
		if color[n] == white && dfs(n) {
			return from, to, true
		}
	}
	return "", "", false
}
