package reconciler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/patrickmn/go-cache"
	"k8s.io/apimachinery/pkg/util/wait"

	argocdapi "github.com/glueops/pull-request-bot/api/argocd/v1alpha1"
	"github.com/glueops/pull-request-bot/internal/argocd"
	"github.com/glueops/pull-request-bot/internal/comment"
	"github.com/glueops/pull-request-bot/internal/commits"
	"github.com/glueops/pull-request-bot/internal/gitprovider"
	"github.com/glueops/pull-request-bot/internal/ledger"
	"github.com/glueops/pull-request-bot/internal/links"
	"github.com/glueops/pull-request-bot/pkg/logging"
)

// Options tune the behavior of a Reconciler.
type Options struct {
	// PollInterval is the pause between cycles, and the first pause after a
	// failure to list from the cluster.
	PollInterval time.Duration
	// MaxSourceBackoff caps the pause between cycles after consecutive
	// failures to list from the cluster.
	MaxSourceBackoff time.Duration
	// DeliveryTimeout bounds every request to a Git hosting provider.
	DeliveryTimeout time.Duration
	// RejectionCooldown is how long a commit is not retried after a provider
	// rejected its comment. Zero disables the cooldown.
	RejectionCooldown time.Duration
	// CommentMarkerLookup enables searching a pull request for a previously
	// posted comment for the same commit before posting.
	CommentMarkerLookup bool
}

// TokenResolver obtains access tokens for Git providers.
type TokenResolver interface {
	GetToken(ctx context.Context, repo *gitprovider.Repository) (string, error)
}

// Reconciler posts a comment to the pull request behind every Argo CD
// Application generated by a pull request generator, once per commit.
type Reconciler struct {
	opts     Options
	source   argocd.Source
	ledger   ledger.Ledger
	tokens   TokenResolver
	links    links.Builder
	cooldown *cache.Cache

	// The following behaviors are overridable for testing purposes:

	newProviderFn func(
		*gitprovider.Repository,
		*gitprovider.Options,
	) (gitprovider.Interface, error)
}

// New returns a Reconciler. Deliveries are remembered in l.
func New(
	source argocd.Source,
	l ledger.Ledger,
	tokens TokenResolver,
	linkBuilder links.Builder,
	opts Options,
) *Reconciler {
	r := &Reconciler{
		opts:          opts,
		source:        source,
		ledger:        l,
		tokens:        tokens,
		links:         linkBuilder,
		newProviderFn: gitprovider.New,
	}
	if opts.RejectionCooldown > 0 {
		r.cooldown = cache.New(opts.RejectionCooldown, 2*opts.RejectionCooldown)
	}
	return r
}

// Run reconciles repeatedly until ctx is canceled. Cycles are PollInterval
// apart, except after a failure to list from the cluster, after which the
// pause doubles with each consecutive failure up to MaxSourceBackoff.
func (r *Reconciler) Run(ctx context.Context) error {
	logger := logging.LoggerFromContext(ctx)
	logger.Info(
		"starting reconciliation loop",
		"pollInterval", r.opts.PollInterval,
		"domain", r.links.Domain(),
	)
	p := newPacer(r.opts.PollInterval, r.opts.MaxSourceBackoff)
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping reconciliation loop")
			return nil
		case <-timer.C:
		}
		err := r.ReconcileOnce(ctx)
		if err != nil && ctx.Err() == nil {
			logger.Error(err, "error reconciling")
		}
		delay := p.next(err)
		logger.Trace("sleeping until next cycle", "delay", delay)
		timer.Reset(delay)
	}
}

// ReconcileOnce performs a single cycle. It returns an error wrapping
// argocd.ErrSourceUnavailable if Applications or ApplicationSets could not be
// listed. Failures affecting a single Application are logged and otherwise
// swallowed so that the next cycle retries them.
func (r *Reconciler) ReconcileOnce(ctx context.Context) error {
	logger := logging.LoggerFromContext(ctx)

	apps, err := r.source.ListApplications(ctx)
	if err != nil {
		cyclesTotal.WithLabelValues(cycleResultSourceUnavailable).Inc()
		return err
	}
	candidates := commits.Filter(apps, r.seen)
	logger.Debug(
		"listed Applications",
		"count", len(apps),
		"candidates", len(candidates),
	)
	if len(candidates) == 0 {
		cyclesTotal.WithLabelValues(cycleResultSuccess).Inc()
		return nil
	}

	appSets, err := r.source.ListApplicationSets(ctx)
	if err != nil {
		cyclesTotal.WithLabelValues(cycleResultSourceUnavailable).Inc()
		return err
	}

	for i := range candidates {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.processCandidate(ctx, &candidates[i], appSets)
	}
	ledgerSize.Set(float64(r.ledger.Len()))
	cyclesTotal.WithLabelValues(cycleResultSuccess).Inc()
	return nil
}

// seen reports whether the commit was delivered or is cooling down after a
// rejection.
func (r *Reconciler) seen(sha string) bool {
	if r.ledger.Contains(sha) {
		return true
	}
	if r.cooldown != nil {
		if _, ok := r.cooldown.Get(sha); ok {
			return true
		}
	}
	return false
}

func (r *Reconciler) processCandidate(
	ctx context.Context,
	app *argocdapi.Application,
	appSets []argocdapi.ApplicationSet,
) {
	logger := logging.LoggerFromContext(ctx).WithValues(
		"namespace", app.Namespace,
		"application", app.Name,
	)
	defer func() {
		if p := recover(); p != nil {
			skippedTotal.WithLabelValues(skipReasonPanic).Inc()
			logger.Error(
				fmt.Errorf("%v", p),
				"recovered from panic while processing Application",
			)
		}
	}()

	rec, err := commits.Extract(app)
	switch {
	case errors.Is(err, commits.ErrNotReady):
		skippedTotal.WithLabelValues(skipReasonNotReady).Inc()
		logger.Debug("Application not ready; will retry", "reason", err.Error())
		return
	case errors.Is(err, commits.ErrNotGenerated):
		skippedTotal.WithLabelValues(skipReasonNotGenerated).Inc()
		logger.Debug("Application not generated by an ApplicationSet; skipping")
		return
	case err != nil:
		logger.Error(err, "error extracting commit from Application")
		return
	}
	logger = logger.WithValues(
		"sha", rec.SHA,
		"pullRequest", rec.PullRequestNumber,
		"applicationSet", rec.ApplicationSet,
	)
	// Another Application processed earlier in this cycle may share the
	// commit.
	if r.seen(rec.SHA) {
		logger.Debug("commit already handled")
		return
	}

	repo, ok := gitprovider.RepositoryFromGenerator(
		argocd.ResolvePullRequestGenerator(appSets, rec.ApplicationSet),
	)
	if !ok {
		skippedTotal.WithLabelValues(skipReasonNoGenerator).Inc()
		logger.Info("no supported pull request generator found; will retry")
		return
	}
	logger = logger.WithValues("provider", repo.Provider, "repo", repo.String())

	ctx = logging.ContextWithLogger(ctx, logger)
	start := time.Now()
	result, err := r.deliver(ctx, rec, repo)
	deliveryDuration.WithLabelValues(repo.Provider).Observe(time.Since(start).Seconds())
	if err != nil {
		retriable := gitprovider.IsRetriable(err)
		if retriable {
			deliveriesTotal.WithLabelValues(repo.Provider, deliveryResultFailed).Inc()
		} else {
			deliveriesTotal.WithLabelValues(repo.Provider, deliveryResultRejected).Inc()
			if r.cooldown != nil {
				r.cooldown.SetDefault(rec.SHA, struct{}{})
			}
		}
		logger.Error(err, "error delivering pull request comment", "retriable", retriable)
		return
	}
	r.ledger.Record(rec.SHA)
	deliveriesTotal.WithLabelValues(repo.Provider, result).Inc()
	logger.Info("pull request comment delivered", "result", result)
}

// deliver posts the comment for rec unless one is already present. The
// returned string is the delivery result for metrics.
func (r *Reconciler) deliver(
	ctx context.Context,
	rec *commits.Record,
	repo *gitprovider.Repository,
) (string, error) {
	logger := logging.LoggerFromContext(ctx)

	token, err := r.tokens.GetToken(ctx, repo)
	if err != nil {
		return "", fmt.Errorf("error resolving credentials: %w", err)
	}
	provider, err := r.newProviderFn(repo, &gitprovider.Options{
		Token:                 token,
		InsecureSkipTLSVerify: repo.Insecure,
		Timeout:               r.opts.DeliveryTimeout,
	})
	if err != nil {
		return "", fmt.Errorf("error creating %s client: %w", repo.Provider, err)
	}

	if r.opts.CommentMarkerLookup {
		existing, err := provider.FindComment(
			ctx,
			rec.PullRequestNumber,
			comment.Marker(rec.SHA),
		)
		if err != nil {
			return "", fmt.Errorf("error looking for existing comment: %w", err)
		}
		if existing != nil {
			logger.Debug("found existing comment for commit", "commentID", existing.ID)
			return deliveryResultAlreadyPresent, nil
		}
	}

	body := comment.Render(rec, r.links.Build(rec.Namespace, rec.Application))
	created, err := provider.CreateComment(ctx, rec.PullRequestNumber, body)
	if err != nil {
		return "", err
	}
	if created != nil {
		logger.Debug("created comment", "commentID", created.ID, "url", created.URL)
	}
	return deliveryResultDelivered, nil
}

// pacer computes the pause before the next cycle.
type pacer struct {
	interval time.Duration
	maxDelay time.Duration
	backoff  wait.Backoff
}

func newPacer(interval, maxDelay time.Duration) *pacer {
	p := &pacer{interval: interval, maxDelay: maxDelay}
	p.reset()
	return p
}

func (p *pacer) reset() {
	p.backoff = wait.Backoff{
		Duration: p.interval,
		Factor:   2,
		Steps:    math.MaxInt32,
		Cap:      p.maxDelay,
	}
}

// next returns the pause following a cycle that ended with err. Only failures
// to list from the cluster back off; anything else resets the backoff.
func (p *pacer) next(err error) time.Duration {
	if err == nil || !errors.Is(err, argocd.ErrSourceUnavailable) {
		p.reset()
		return p.interval
	}
	return p.backoff.Step()
}
