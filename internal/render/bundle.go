package render

import (
	"context"

	"golang.org/x/sync/errgroup"

	"resumeforge/internal/types"
)

// Bundle renders all four documents for a result. The renders are
// independent, so they run concurrently; the first failure cancels the
// rest and is returned.
func Bundle(ctx context.Context, resume types.Resume, coverLetter string) (types.DocumentBundle, error) {
	var bundle types.DocumentBundle

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := ResumePDF(resume)
		if err != nil {
			return err
		}
		bundle.ResumePDF = out
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := ResumeDOCX(resume)
		if err != nil {
			return err
		}
		bundle.ResumeDOCX = out
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := CoverLetterPDF(resume.Header.Name, coverLetter)
		if err != nil {
			return err
		}
		bundle.CoverLetterPDF = out
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := CoverLetterDOCX(resume.Header.Name, coverLetter)
		if err != nil {
			return err
		}
		bundle.CoverLetterDOCX = out
		return nil
	})

	if err := g.Wait(); err != nil {
		return types.DocumentBundle{}, err
	}
	return bundle, nil
}
