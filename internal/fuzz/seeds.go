package fuzztests

import "testing"

var typeRefSeeds = []string{
	"int",
	"String",
	"java.util.List<String>",
	"Map<K, ? extends List<V>>[]",
	"List<? super Integer>",
	"T[][]",
	"a.b.C<D, ? extends E>[]",
	"List<",
	"<>",
	"",
}

var declSeeds = []string{
	`package: demo
types:
  - name: Widget
    typeParams:
      - name: T
        bounds: [Number]
    fields:
      - name: count
        type: int
    methods:
      - name: compute
        returns: List<T>
        params:
          - name: v
            type: T[]
`,
	`package: demo
types:
  - name: Shape
    kind: interface
    methods:
      - name: area
        returns: double
        modifiers: [abstract]
`,
	`types: []`,
	`package: [1, 2]`,
	"",
}

func addSeeds(f *testing.F, seeds []string) {
	for _, s := range seeds {
		f.Add([]byte(s))
	}
}
