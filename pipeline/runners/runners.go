// Package runners contains the built-in pipeline.StageRunner implementations.
package runners
