package alogger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func recordWithModule(level Level, module string) *Record {
	r := &Record{Level: level, Seconds: time.Now().Unix()}
	if module != "" {
		r.Module = &module
	}
	return r
}

func TestUnlockedFilterAlwaysNoLock(t *testing.T) {
	f := NewModuleFilter("m", Include)
	f.AddModule("svc")
	assert.Equal(t, NoLock, f.check(recordWithModule(Info, "svc")))
}

func TestErrorBypassesFilterUnlessOptedIn(t *testing.T) {
	f := NewModuleFilter("m", Exclude)
	f.AddModule("svc")
	f.lock()

	assert.Equal(t, MessError, f.check(recordWithModule(Error, "svc")))

	f2 := NewModuleFilter("m2", Exclude)
	f2.AddModule("svc")
	f2.SetFilteringErrors(true)
	f2.lock()
	assert.Equal(t, Fail, f2.check(recordWithModule(Error, "svc")))
}

func TestModuleIncludeMode(t *testing.T) {
	f := NewModuleFilter("only-svc", Include)
	f.AddModule("svc")
	f.lock()

	assert.Equal(t, Success, f.check(recordWithModule(Info, "svc")))
	assert.Equal(t, Fail, f.check(recordWithModule(Info, "other")))
}

func TestLevelFilterRoleSwapBetweenModes(t *testing.T) {
	inc := NewLevelFilter("inc", Include, Warning)
	inc.AddModule("svc")
	inc.lock()
	// Include mode: modules not in the set always pass; modules in the
	// set are gated by level.
	assert.Equal(t, Success, inc.check(recordWithModule(Debug, "other")))
	assert.Equal(t, Success, inc.check(recordWithModule(Warning, "svc")))
	assert.Equal(t, Fail, inc.check(recordWithModule(Debug, "svc")))

	exc := NewLevelFilter("exc", Exclude, Warning)
	exc.AddModule("svc")
	exc.lock()
	// Exclude mode: roles swap — modules in the set always pass.
	assert.Equal(t, Success, exc.check(recordWithModule(Debug, "svc")))
	assert.Equal(t, Success, exc.check(recordWithModule(Warning, "other")))
	assert.Equal(t, Fail, exc.check(recordWithModule(Debug, "other")))
}

func TestFileFilterBareNameMatchesEveryLine(t *testing.T) {
	f := NewFileFilter("f", Include)
	f.AddFile("a.cpp")
	f.lock()

	file := "a.cpp"
	r := &Record{Level: Info, File: &file, Line: 7}
	assert.Equal(t, Success, f.check(r))
}

func TestFileFilterSpecificLine(t *testing.T) {
	f := NewFileFilter("f", Include)
	f.AddFile("a.cpp:42")
	f.lock()

	file := "a.cpp"
	hit := &Record{Level: Info, File: &file, Line: 42}
	miss := &Record{Level: Info, File: &file, Line: 43}
	assert.Equal(t, Success, f.check(hit))
	assert.Equal(t, Fail, f.check(miss))
}

func TestThreadContextFollowIncludeMode(t *testing.T) {
	f := NewModuleFilter("trace", Include)
	f.AddModule("svc")
	f.SetFollowThreadContext(true)
	f.lock()

	tagged := recordWithModule(Info, "svc")
	tagged.ThreadID = 42
	assert.Equal(t, Success, f.check(tagged))

	// Same thread, different module: the thread-context extension grants
	// a pass even though the module alone would not match.
	follow := recordWithModule(Info, "unrelated")
	follow.ThreadID = 42
	assert.Equal(t, Success, f.check(follow))

	other := recordWithModule(Info, "unrelated")
	other.ThreadID = 99
	assert.Equal(t, Fail, f.check(other))
}

func TestRemoveIdsTimeoutThreadsEvictsOldEntries(t *testing.T) {
	f := NewModuleFilter("trace", Include)
	f.AddModule("svc")
	f.SetFollowThreadContext(true)
	f.lock()

	tagged := recordWithModule(Info, "svc")
	tagged.ThreadID = 7
	f.check(tagged)
	assert.True(t, f.threadRemembered(7))

	f.removeIdsTimeoutThreads(time.Now().Add(4 * time.Second))
	assert.False(t, f.threadRemembered(7))
}
