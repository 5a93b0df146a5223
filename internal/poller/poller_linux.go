//go:build linux

// Package poller lets the scheduler block efficiently for an external
// wake-up (a network socket becoming readable, a timer firing) instead
// of busy-polling RunAvailable between ticks: one epoll-backed eventfd
// the scheduler waits on in RunAsync, armed by ScheduleExternal.
package poller

import (
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Waker is a level-triggered wake-up channel backed by an eventfd: any
// number of Wake calls between two Wait calls coalesce into one
// readiness signal, matching the "external event arrived, drain
// everything" semantics RunAsync needs.
type Waker struct {
	fd     int
	epfd   int
	closed atomic.Bool
}

// New creates a Waker backed by a non-blocking eventfd registered with
// its own epoll instance.
func New() (*Waker, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, err
	}
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(fd),
	}); err != nil {
		_ = unix.Close(fd)
		_ = unix.Close(epfd)
		return nil, err
	}
	return &Waker{fd: fd, epfd: epfd}, nil
}

// Wake arms the eventfd; safe to call from any goroutine, any number
// of times before the next Wait drains it.
func (w *Waker) Wake() error {
	if w.closed.Load() {
		return nil
	}
	var buf [8]byte
	buf[7] = 1
	_, err := unix.Write(w.fd, buf[:])
	if err == unix.EAGAIN {
		// Counter already non-zero (overflow-avoidance); a pending
		// wake is already armed, nothing further to do.
		return nil
	}
	return err
}

// Wait blocks up to timeoutMs (negative means forever) for a Wake
// call, then drains the eventfd's counter back to zero. Returns true
// if a wake was observed before the timeout elapsed.
func (w *Waker) Wait(timeoutMs int) (bool, error) {
	if w.closed.Load() {
		return false, nil
	}
	var events [1]unix.EpollEvent
	n, err := unix.EpollWait(w.epfd, events[:], timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return false, nil
		}
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	var buf [8]byte
	_, _ = unix.Read(w.fd, buf[:])
	return true, nil
}

// Close releases the eventfd and epoll instance.
func (w *Waker) Close() error {
	w.closed.Store(true)
	err1 := unix.Close(w.fd)
	err2 := unix.Close(w.epfd)
	if err1 != nil {
		return err1
	}
	return err2
}
