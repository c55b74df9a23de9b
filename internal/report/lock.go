package report

import (
	"io"
	"os"

	"github.com/apex/log"
	"golang.org/x/sys/unix"
)

// Lock takes an exclusive advisory write lock on f when it refers to a
// regular file, blocking until the lock is granted. Independent happy
// runs appending to one shared file take turns rendering so their
// records do not interleave. Pipes and terminals are left alone. Lock
// failures are reported and otherwise ignored.
func Lock(f *os.File, logger log.Interface) {
	fcntlLock(f, unix.F_WRLCK, logger)
}

// Unlock releases a lock previously taken by Lock. Like Lock it is a
// no-op unless f is a regular file.
func Unlock(f *os.File, logger log.Interface) {
	fcntlLock(f, unix.F_UNLCK, logger)
}

func fcntlLock(f *os.File, typ int16, logger log.Interface) {
	fd := int(f.Fd())
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil || st.Mode&unix.S_IFMT != unix.S_IFREG {
		return
	}
	lk := unix.Flock_t{
		Type:   typ,
		Whence: io.SeekEnd,
	}
	if err := unix.FcntlFlock(uintptr(fd), unix.F_SETLKW, &lk); err != nil {
		logger.Warnf("fcntl: %s (ignored)", err)
	}
}
