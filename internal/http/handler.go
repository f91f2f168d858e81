package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/http/middleware"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/model"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/service"
)

type RankingExporter interface {
	Generate(listing model.Listing, applicants []model.DetailedApplicant) ([]byte, error)
}

type LetterGenerator interface {
	Generate(letter model.OfferLetter) ([]byte, error)
}

type Handler struct {
	leasing           *service.LeasingService
	offers            *service.OfferService
	excel             RankingExporter
	pdf               LetterGenerator
	offerValidityDays int
	log               zerolog.Logger
}

func NewHandler(
	leasing *service.LeasingService,
	offers *service.OfferService,
	excel RankingExporter,
	pdf LetterGenerator,
	offerValidityDays int,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		leasing:           leasing,
		offers:            offers,
		excel:             excel,
		pdf:               pdf,
		offerValidityDays: offerValidityDays,
		log:               log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/listings", h.createListing)
	protected.GET("/listings/:id", h.getListing)
	protected.POST("/listings/:id/applicants", h.apply)
	protected.GET("/listings/:id/applicants", h.listApplicants)
	protected.GET("/listings/:id/applicants/export", h.exportApplicants)

	protected.GET("/rental-rules/:contactCode/:rentalObjectCode", h.applicationType)
	protected.DELETE("/applicants/:id", h.withdraw)

	protected.POST("/offers", h.createOffer)
	protected.GET("/offers/:id", h.getOffer)
	protected.POST("/offers/:id/accept", h.acceptOffer)
	protected.POST("/offers/:id/deny", h.denyOffer)
	protected.GET("/offers/:id/letter", h.offerLetter)
}

type createListingRequest struct {
	RentalObjectCode  string  `json:"rentalObjectCode" binding:"required"`
	Address           string  `json:"address"`
	MonthlyRent       float64 `json:"monthlyRent"`
	DistrictCode      string  `json:"districtCode"`
	DistrictCaption   string  `json:"districtCaption"`
	BlockCode         string  `json:"blockCode"`
	BlockCaption      string  `json:"blockCaption"`
	ObjectTypeCode    string  `json:"objectTypeCode"`
	ObjectTypeCaption string  `json:"objectTypeCaption"`
	PublishedFrom     string  `json:"publishedFrom" binding:"required"`
	PublishedTo       string  `json:"publishedTo" binding:"required"`
	VacantFrom        string  `json:"vacantFrom"`
	WaitingListType   string  `json:"waitingListType"`
}

func (h *Handler) createListing(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok || !principal.CanManageOffers() {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	publishedFrom, err := parseDate(req.PublishedFrom)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid publishedFrom"})
		return
	}
	publishedTo, err := parseDate(req.PublishedTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid publishedTo"})
		return
	}
	vacantFrom := publishedTo
	if req.VacantFrom != "" {
		if vacantFrom, err = parseDate(req.VacantFrom); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vacantFrom"})
			return
		}
	}

	listing, err := h.leasing.CreateListing(c.Request.Context(), model.Listing{
		RentalObjectCode:  req.RentalObjectCode,
		Address:           req.Address,
		MonthlyRent:       req.MonthlyRent,
		DistrictCode:      req.DistrictCode,
		DistrictCaption:   req.DistrictCaption,
		BlockCode:         req.BlockCode,
		BlockCaption:      req.BlockCaption,
		ObjectTypeCode:    req.ObjectTypeCode,
		ObjectTypeCaption: req.ObjectTypeCaption,
		PublishedFrom:     publishedFrom,
		PublishedTo:       publishedTo,
		VacantFrom:        vacantFrom,
		WaitingListType:   req.WaitingListType,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toListingResponse(*listing))
}

func (h *Handler) getListing(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	listing, err := h.leasing.GetListing(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponse(*listing))
}

type applyRequest struct {
	ContactCode string `json:"contactCode"`
}

func (h *Handler) apply(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	listingID, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contactCode := req.ContactCode
	if principal.IsContact() {
		// Contacts may only apply for themselves.
		contactCode = principal.ContactCode
	}

	applicant, err := h.leasing.Apply(c.Request.Context(), service.ApplyInput{
		ListingID:   listingID,
		ContactCode: contactCode,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toApplicantResponse(*applicant))
}

func (h *Handler) listApplicants(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok || !principal.CanManageOffers() {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	listingID, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	_, applicants, err := h.leasing.GetApplicantsWithPriority(c.Request.Context(), listingID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]detailedApplicantResponse, 0, len(applicants))
	for _, applicant := range applicants {
		out = append(out, toDetailedApplicantResponse(applicant))
	}
	c.JSON(http.StatusOK, gin.H{"applicants": out})
}

func (h *Handler) exportApplicants(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok || !principal.CanManageOffers() {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	listingID, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	listing, applicants, err := h.leasing.GetApplicantsWithPriority(c.Request.Context(), listingID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	content, err := h.excel.Generate(*listing, applicants)
	if err != nil {
		h.handleError(c, err)
		return
	}

	fileName := "applicants-" + listing.RentalObjectCode + "-" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

func (h *Handler) applicationType(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	eligibility, err := h.leasing.DetermineApplicationType(
		c.Request.Context(),
		c.Param("contactCode"),
		c.Param("rentalObjectCode"),
	)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if !eligibility.Eligible {
		c.JSON(http.StatusOK, gin.H{"eligible": false, "reason": eligibility.Reason})
		return
	}
	c.JSON(http.StatusOK, gin.H{"eligible": true, "applicationType": eligibility.ApplicationType})
}

func (h *Handler) withdraw(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.leasing.Withdraw(c.Request.Context(), id, principal.CanManageOffers()); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createOfferRequest struct {
	ListingID   int `json:"listingId" binding:"required"`
	ApplicantID int `json:"applicantId" binding:"required"`
}

func (h *Handler) createOffer(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok || !principal.CanManageOffers() {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	var req createOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Freeze the current ranking into the offer.
	_, ranked, err := h.leasing.GetApplicantsWithPriority(c.Request.Context(), req.ListingID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	offer, err := h.offers.Create(c.Request.Context(), service.CreateOfferInput{
		ListingID:          req.ListingID,
		ApplicantID:        req.ApplicantID,
		SelectedApplicants: ranked,
		ExpiresAt:          time.Now().UTC().AddDate(0, 0, h.offerValidityDays),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOfferResponse(*offer))
}

func (h *Handler) getOffer(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	offer, err := h.offers.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOfferResponse(*offer))
}

func (h *Handler) acceptOffer(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.offers.Accept(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) denyOffer(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.offers.Deny(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) offerLetter(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	offer, err := h.offers.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	listing, err := h.leasing.GetListing(c.Request.Context(), offer.ListingID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	letter := model.OfferLetter{Offer: *offer, Listing: *listing}
	for _, applicant := range offer.SelectedApplicants {
		if applicant.ID == offer.OfferedApplicantID {
			letter.ApplicantName = applicant.Name
			letter.ContactAddress = applicant.Address
			break
		}
	}

	content, err := h.pdf.Generate(letter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	fileName := "offer-" + strconv.Itoa(offer.ID) + ".pdf"
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/pdf", content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var stepErr *service.StepError
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrIneligible):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &stepErr):
		h.log.Error().Err(stepErr.Err).Str("step", string(stepErr.Step)).Msg("transactional update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "step": string(stepErr.Step)})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathID(c *gin.Context) (int, error) {
	return strconv.Atoi(c.Param("id"))
}

func parseDate(raw string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02"}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
