package instrument

import "strings"

// The allow and deny lists hold class prefixes that end at a package
// boundary, e.g. "Lcom/example/debug/". An entry matches both the
// classes inside that package tree and the class "Lcom/example/debug;"
// itself, which is why the trailing ';' of a class name is treated as
// one more boundary. The allowlist may additionally name a single
// method as class name plus simple method name.

type nameSet map[string]struct{}

func newNameSet(names []string) nameSet {
	set := make(nameSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func matchClassName(clsName string, set nameSet) bool {
	if len(set) == 0 || !strings.HasSuffix(clsName, ";") {
		return false
	}
	name := clsName[:len(clsName)-1] + "/"
	for i := 0; i < len(name); i++ {
		if name[i] != '/' {
			continue
		}
		if _, ok := set[name[:i+1]]; ok {
			return true
		}
	}
	return false
}

func isExcluded(clsName string, set nameSet) bool {
	return matchClassName(clsName, set)
}

func isIncluded(method, clsName string, set nameSet) bool {
	if matchClassName(clsName, set) {
		return true
	}
	_, ok := set[clsName+method]
	return ok
}
