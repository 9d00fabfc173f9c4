package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/testutils"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLocker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	Convey("Locker", t, func() {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()
		logger, err := testutils.GetLogger()
		if err != nil {
			t.Fatalf("Could not instantiate logger %s", err.Error())
		}
		l := NewLocker(db, logger)
		l.now = func() time.Time { return now }

		Convey("Acquire: free key", func() {
			mock.ExpectExec(regexp.QuoteMeta(acquireLockQuery)).
				WithArgs("commit:1:abc", sqlmock.AnyArg(), now.Add(time.Minute), now).
				WillReturnResult(sqlmock.NewResult(0, 1))
			lease, err := l.Acquire(ctx, "commit:1:abc", time.Minute)
			So(err, ShouldBeNil)
			So(lease.Key(), ShouldEqual, "commit:1:abc")

			mock.ExpectExec(regexp.QuoteMeta(releaseLockQuery)).
				WithArgs("commit:1:abc", sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, 1))
			So(lease.Release(ctx), ShouldBeNil)
			So(lease.Release(ctx), ShouldBeNil)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("Acquire: held and unexpired", func() {
			mock.ExpectExec(regexp.QuoteMeta(acquireLockQuery)).
				WithArgs("commit:1:abc", sqlmock.AnyArg(), now.Add(time.Minute), now).
				WillReturnResult(sqlmock.NewResult(0, 0))
			_, err := l.Acquire(ctx, "commit:1:abc", time.Minute)
			So(errors.Is(err, errs.ErrLockBusy), ShouldBeTrue)
		})

		Convey("Acquire: database failure", func() {
			mock.ExpectExec(regexp.QuoteMeta(acquireLockQuery)).WillReturnError(errors.New("conn reset"))
			_, err := l.Acquire(ctx, "commit:1:abc", time.Minute)
			var coded errs.Err
			So(errors.As(err, &coded), ShouldBeTrue)
			So(coded.Code, ShouldEqual, "ERR::LOCK::ACQ")
		})

		Convey("SweepExpired", func() {
			mock.ExpectExec(regexp.QuoteMeta(sweepLocksQuery)).WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 3))
			n, err := l.SweepExpired(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, int64(3))
		})
	})
}
