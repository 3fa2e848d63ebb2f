// Package partition splits classified files into atomic commit groups and
// orders them so that low-risk commits land first.
//
// Files are bucketed by conventional type and concern, split so that no
// group spans two known areas, and split again along directory boundaries
// when a group exceeds the large-change threshold. Every input file lands in
// exactly one group.
package partition
