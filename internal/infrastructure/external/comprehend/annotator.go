package comprehend

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscomprehend "github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// API is the subset of the Comprehend client used by Annotator
type API interface {
	DetectKeyPhrases(ctx context.Context, params *awscomprehend.DetectKeyPhrasesInput, optFns ...func(*awscomprehend.Options)) (*awscomprehend.DetectKeyPhrasesOutput, error)
	DetectSentiment(ctx context.Context, params *awscomprehend.DetectSentimentInput, optFns ...func(*awscomprehend.Options)) (*awscomprehend.DetectSentimentOutput, error)
}

// Annotator extracts key phrases and overall sentiment with Amazon Comprehend
type Annotator struct {
	client       API
	languageCode types.LanguageCode
}

// NewAnnotator builds an annotator from an AWS config
func NewAnnotator(awsCfg aws.Config, languageCode string) *Annotator {
	return NewAnnotatorWithClient(awscomprehend.NewFromConfig(awsCfg), languageCode)
}

// NewAnnotatorWithClient wraps an existing client
func NewAnnotatorWithClient(client API, languageCode string) *Annotator {
	if languageCode == "" {
		languageCode = string(types.LanguageCodeEn)
	}
	return &Annotator{client: client, languageCode: types.LanguageCode(languageCode)}
}

// Annotate implements repositories.Annotator. Key phrases keep the order
// Comprehend returns them in.
func (a *Annotator) Annotate(ctx context.Context, text string) (entities.Annotation, error) {
	phrases, err := a.client.DetectKeyPhrases(ctx, &awscomprehend.DetectKeyPhrasesInput{
		Text:         aws.String(text),
		LanguageCode: a.languageCode,
	})
	if err != nil {
		return entities.Annotation{}, fmt.Errorf("detect key phrases: %w", err)
	}

	sentiment, err := a.client.DetectSentiment(ctx, &awscomprehend.DetectSentimentInput{
		Text:         aws.String(text),
		LanguageCode: a.languageCode,
	})
	if err != nil {
		return entities.Annotation{}, fmt.Errorf("detect sentiment: %w", err)
	}

	label := entities.SentimentLabel(sentiment.Sentiment)
	if !label.Valid() {
		return entities.Annotation{}, fmt.Errorf("unexpected sentiment %q", sentiment.Sentiment)
	}

	annotation := entities.Annotation{
		Sentiment:  label,
		KeyPhrases: make([]entities.KeyPhrase, 0, len(phrases.KeyPhrases)),
	}
	for _, kp := range phrases.KeyPhrases {
		annotation.KeyPhrases = append(annotation.KeyPhrases, entities.KeyPhrase{
			Text:  aws.ToString(kp.Text),
			Score: float64(aws.ToFloat32(kp.Score)),
		})
	}
	return annotation, nil
}
