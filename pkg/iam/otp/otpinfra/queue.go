package otpinfra

import (
	"context"

	"github.com/Abraxas-365/storefront/pkg/iam/otp"
	"github.com/Abraxas-365/storefront/pkg/jobx"
	"github.com/Abraxas-365/storefront/pkg/logx"
)

// JobTypeDeliver is the jobx type for queued OTP emails.
const JobTypeDeliver = "otp.deliver"

type deliverPayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// QueuedOTPNotifier hands delivery to the job queue. Only a failed enqueue
// is reported to the caller.
type QueuedOTPNotifier struct {
	enqueuer jobx.Enqueuer
	queue    string
}

func NewQueuedOTPNotifier(enqueuer jobx.Enqueuer, queue string) *QueuedOTPNotifier {
	return &QueuedOTPNotifier{enqueuer: enqueuer, queue: queue}
}

func (n *QueuedOTPNotifier) SendOTP(ctx context.Context, email, code string) error {
	job, err := jobx.NewJob(JobTypeDeliver, n.queue, deliverPayload{Email: email, Code: code})
	if err != nil {
		return otp.ErrDeliveryUnavailable(err)
	}

	id, err := n.enqueuer.Enqueue(ctx, job)
	if err != nil {
		return otp.ErrDeliveryUnavailable(err).WithDetail("email", email)
	}

	logx.WithContext(ctx).WithFields(logx.Fields{"job_id": id, "email": email}).Debug("otp: delivery queued")
	return nil
}

// DeliverHandler returns the worker side of QueuedOTPNotifier: it decodes
// the job and sends through sender.
func DeliverHandler(sender otp.NotificationService) jobx.HandlerFunc {
	return func(ctx context.Context, job *jobx.JobInfo) error {
		p, err := jobx.DecodePayload[deliverPayload](job)
		if err != nil {
			return err
		}
		return sender.SendOTP(ctx, p.Email, p.Code)
	}
}
