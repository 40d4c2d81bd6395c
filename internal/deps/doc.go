// Package deps checks that the external binaries tracksplit shells out to are
// installed and resolvable on PATH.
package deps
