//go:build darwin || freebsd || linux

package spell

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// EnchantLibraryNames lists the shared library names tried in order.
func EnchantLibraryNames() []string {
	if runtime.GOOS == "darwin" {
		return []string{
			"libenchant-2.2.dylib",
			"libenchant-2.dylib",
			"libenchant.2.dylib",
			"libenchant.dylib",
		}
	}
	return []string{
		"libenchant-2.so.2",
		"libenchant.so.2",
		"libenchant.so.1",
		"libenchant.so",
	}
}

// EnchantCandidates returns one candidate per Enchant library name.
func EnchantCandidates() []Candidate {
	names := EnchantLibraryNames()
	candidates := make([]Candidate, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, Candidate{
			Name: name,
			Load: func() (Provider, error) {
				return loadEnchant(name)
			},
		})
	}
	return candidates
}

// enchantLib is the Enchant C API resolved from a shared library.
type enchantLib struct {
	libName string
	handle  uintptr

	brokerInit          func() uintptr
	brokerFree          func(broker uintptr)
	brokerFreeDict      func(broker, dict uintptr)
	brokerRequestDict   func(broker uintptr, tag string) uintptr
	dictAddToPersonal   func(dict uintptr, word string, n int)
	dictAddToSession    func(dict uintptr, word string, n int)
	dictCheck           func(dict uintptr, word string, n int) int32
	dictFreeSuggestions func(dict, suggestions uintptr)
	dictSuggest         func(dict uintptr, word string, n int, count *uintptr) uintptr
}

func loadEnchant(libName string) (*enchantLib, error) {
	handle, err := purego.Dlopen(libName, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("dlopen %s: %w", libName, err)
	}

	lib := &enchantLib{libName: libName, handle: handle}
	symbols := []struct {
		name string
		fptr any
	}{
		{"enchant_broker_init", &lib.brokerInit},
		{"enchant_broker_free", &lib.brokerFree},
		{"enchant_broker_free_dict", &lib.brokerFreeDict},
		{"enchant_broker_request_dict", &lib.brokerRequestDict},
		{"enchant_dict_add_to_personal", &lib.dictAddToPersonal},
		{"enchant_dict_add_to_session", &lib.dictAddToSession},
		{"enchant_dict_check", &lib.dictCheck},
		{"enchant_dict_free_suggestions", &lib.dictFreeSuggestions},
		{"enchant_dict_suggest", &lib.dictSuggest},
	}
	for _, s := range symbols {
		sym, err := purego.Dlsym(handle, s.name)
		if err != nil || sym == 0 {
			purego.Dlclose(handle)
			return nil, fmt.Errorf("%w: %s in %s", ErrSymbolMissing, s.name, libName)
		}
		purego.RegisterFunc(s.fptr, sym)
	}
	return lib, nil
}

func (l *enchantLib) Name() string {
	return "enchant (" + l.libName + ")"
}

func (l *enchantLib) NewBroker() (Broker, error) {
	b := l.brokerInit()
	if b == 0 {
		return nil, fmt.Errorf("enchant_broker_init returned NULL")
	}
	return &enchantBroker{lib: l, ptr: b}, nil
}

type enchantBroker struct {
	lib *enchantLib
	ptr uintptr
}

func (b *enchantBroker) RequestDict(tag string) (Dictionary, error) {
	if b.ptr == 0 {
		return nil, ErrUnavailable
	}
	d := b.lib.brokerRequestDict(b.ptr, tag)
	if d == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDictionaryNotFound, tag)
	}
	return &enchantDict{lib: b.lib, ptr: d, lang: tag}, nil
}

func (b *enchantBroker) FreeDict(d Dictionary) {
	ed, ok := d.(*enchantDict)
	if !ok || b.ptr == 0 || ed.ptr == 0 {
		return
	}
	b.lib.brokerFreeDict(b.ptr, ed.ptr)
	ed.ptr = 0
}

func (b *enchantBroker) Close() error {
	if b.ptr != 0 {
		b.lib.brokerFree(b.ptr)
		b.ptr = 0
	}
	return nil
}

type enchantDict struct {
	lib  *enchantLib
	ptr  uintptr
	lang string
}

func (d *enchantDict) Lang() string {
	return d.lang
}

func (d *enchantDict) Check(word string) bool {
	if d.ptr == 0 || word == "" {
		return true
	}
	// 0 means correct, positive misspelled, negative an error.
	return d.lib.dictCheck(d.ptr, word, len(word)) == 0
}

func (d *enchantDict) Suggest(word string) []string {
	if d.ptr == 0 || word == "" {
		return nil
	}
	var n uintptr
	list := d.lib.dictSuggest(d.ptr, word, len(word), &n)
	if list == 0 {
		return nil
	}
	defer d.lib.dictFreeSuggestions(d.ptr, list)
	return goStrings(list, int(n))
}

func (d *enchantDict) AddToPersonal(word string) {
	if d.ptr != 0 && word != "" {
		d.lib.dictAddToPersonal(d.ptr, word, len(word))
	}
}

func (d *enchantDict) AddToSession(word string) {
	if d.ptr != 0 && word != "" {
		d.lib.dictAddToSession(d.ptr, word, len(word))
	}
}

// goStrings copies n C strings from a char** array owned by C.
func goStrings(list uintptr, n int) []string {
	ptrs := unsafe.Slice((*uintptr)(unsafe.Pointer(list)), n)
	out := make([]string, 0, n)
	for _, p := range ptrs {
		if p == 0 {
			continue
		}
		out = append(out, goString(p))
	}
	return out
}

// goString copies a NUL-terminated C string.
func goString(p uintptr) string {
	start := (*byte)(unsafe.Pointer(p))
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(start), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(start, n))
}
