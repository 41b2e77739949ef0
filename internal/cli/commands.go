package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"procure-desk/internal/dataset"
	"procure-desk/internal/delivery"
	"procure-desk/internal/editor"
	"procure-desk/internal/export"
	"procure-desk/internal/models"
	"procure-desk/internal/shortage"
	"procure-desk/internal/timeutil"
)

func (a *App) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	user := fs.String("user", "", "username")
	pass := fs.String("pass", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.client.Login(ctx, *user, *pass)
	if err != nil {
		return err
	}
	if err := sess.SaveToFile(a.cfg.API.TokenFile); err != nil {
		return fmt.Errorf("token obtained but not cached: %w", err)
	}

	fmt.Fprintf(a.out, "logged in as %s (%s), token valid until %s\n",
		*user, sess.Role, timeutil.FormatIST(sess.Expiry, timeutil.DateTimeLayout))
	return nil
}

func (a *App) runListPOs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pos", flag.ContinueOnError)
	search := fs.String("search", "", "free-text filter (PO number, vendor, component fields)")
	date := fs.String("date", "", "created-on day filter, YYYY-MM-DD")
	mrfOnly := fs.Bool("mrf-only", false, "only MRF-format requisitions")
	sortKey := fs.String("sort", "", "sort key: po_number, vendor_name, po_created_at, expected_delivery_date")
	desc := fs.Bool("desc", false, "sort descending")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	orders, err := a.client.ListPurchaseOrders(ctx)
	if err != nil {
		return err
	}

	eng := dataset.NewPurchaseOrderEngine(orders, a.cfg.Procurement.PageSize)
	eng.SetSearch(*search)
	eng.SetDate(*date)
	eng.SetMRFOnly(*mrfOnly)
	if *sortKey != "" {
		eng.SortBy(*sortKey)
		if *desc {
			eng.SortBy(*sortKey) // second hit toggles direction
		}
	}
	eng.SetPage(*page)

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PO NUMBER\tVENDOR\tMRF\tCREATED\tEXPECTED\tSTATUS\tITEMS")
	for _, po := range eng.Visible() {
		expected := "-"
		if po.ExpectedDeliveryDate != nil {
			expected = timeutil.DateOnly(*po.ExpectedDeliveryDate)
		}
		c := delivery.Classify(po.ExpectedDeliveryDate, po.Status, a.refDay, a.cfg.Procurement.DueSoonDays)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			po.PONumber, po.VendorName, po.MRFNo,
			timeutil.DateOnly(po.CreatedAt), expected, c.Label, len(po.Components))
	}
	w.Flush()
	fmt.Fprintf(a.out, "page %d of %d\n", eng.Page(), eng.PageCount())
	return nil
}

func (a *App) runShowPO(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: po <po-number> [flags]")
	}
	poNumber := args[0]

	fs := flag.NewFlagSet("po", flag.ContinueOnError)
	search := fs.String("search", "", "filter components by MPN, description or part number")
	sortKey := fs.String("sort", "", "sort key: mpn, item_description, part_no, updated_requested_quantity, amount")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	orders, err := a.client.ListPurchaseOrders(ctx)
	if err != nil {
		return err
	}

	browser := dataset.NewPOBrowser(orders, a.cfg.Procurement.PageSize)
	eng := browser.Scope(poNumber)
	if eng == nil {
		return fmt.Errorf("purchase order %s not found", poNumber)
	}
	eng.SetSearch(*search)
	if *sortKey != "" {
		eng.SortBy(*sortKey)
	}
	eng.SetPage(*page)

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COMPONENT\tMPN\tDESCRIPTION\tPART NO\tUOM\tQTY\tRATE\tAMOUNT\tGST")
	for _, c := range eng.Visible() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%g\t%s\t%s\t%s\n",
			c.ComponentID, c.MPN, c.ItemDescription, c.PartNo, c.UOM,
			c.UpdatedRequestedQty, c.RatePerUnit.StringFixed(2),
			c.Amount.StringFixed(2), c.GSTAmount.StringFixed(2))
	}
	w.Flush()
	fmt.Fprintf(a.out, "page %d of %d\n", eng.Page(), eng.PageCount())
	return nil
}

func (a *App) runEdit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	poNumber := fs.String("po", "", "purchase order number")
	componentID := fs.String("component", "", "component id")
	qty := fs.Float64("qty", -1, "new requested quantity")
	date := fs.String("date", "", "new expected delivery date, YYYY-MM-DD")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *poNumber == "" || *componentID == "" {
		return fmt.Errorf("usage: edit -po PO-NNNN -component C-N -qty N [-date YYYY-MM-DD]")
	}

	orders, err := a.client.ListPurchaseOrders(ctx)
	if err != nil {
		return err
	}
	comp, ok := findComponent(orders, *poNumber, *componentID)
	if !ok {
		return fmt.Errorf("component %s not found on %s", *componentID, *poNumber)
	}

	wf := editor.New(a.client, a.bus, a.cfg.Procurement.GSTRate, a.refDay)
	wf.ToggleUnlock(*poNumber)

	e, err := wf.Begin(comp)
	if err != nil {
		return err
	}
	if *qty >= 0 {
		if err := wf.SetQuantity(e, *qty); err != nil {
			return err
		}
	}
	if *date != "" {
		d, err := timeutil.ParseDateOnly(*date)
		if err != nil {
			return fmt.Errorf("bad -date: %w", err)
		}
		if err := wf.SetExpectedDate(e, d); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.out, "staged: qty %g, amount %s, gst %s\n",
		e.Qty, e.Amount.StringFixed(2), e.GSTAmount.StringFixed(2))

	if err := wf.RequestSubmit(e); err != nil {
		return err
	}
	if !*yes && !a.confirm(fmt.Sprintf("submit update for %s/%s?", *poNumber, *componentID)) {
		wf.Cancel(e)
		fmt.Fprintln(a.out, "cancelled, nothing sent")
		return nil
	}

	updated, err := wf.Confirm(ctx, e)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "committed: amount %s, gst %s (server values)\n",
		updated.Amount.StringFixed(2), updated.GSTAmount.StringFixed(2))
	return nil
}

func findComponent(orders []models.PurchaseOrder, poNumber, componentID string) (models.Component, bool) {
	for _, po := range orders {
		if po.PONumber != poNumber {
			continue
		}
		for _, c := range po.Components {
			if c.ComponentID == componentID {
				return c, true
			}
		}
	}
	return models.Component{}, false
}

func (a *App) runApprovals(ctx context.Context, _ []string) error {
	reqs, err := a.client.ListApprovalRequests(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "UMI\tUSER\tSTATUS\tPRIORITY\tLINES")
	for _, r := range reqs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", r.UMI, r.UserID, r.Status, r.Priority, len(r.Items))
	}
	return w.Flush()
}

func (a *App) runApprove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("approve", flag.ContinueOnError)
	umi := fs.String("umi", "", "requisition UMI")
	note := fs.String("note", "", "approval note")
	priority := fs.String("priority", "", "priority override")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *umi == "" {
		return fmt.Errorf("usage: approve -umi UMI-NNN [-note ...] [-priority ...]")
	}

	reqs, err := a.client.ListApprovalRequests(ctx)
	if err != nil {
		return err
	}
	var target *models.ApprovalRequest
	for i := range reqs {
		if reqs[i].UMI == *umi {
			target = &reqs[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("approval request %s not found", *umi)
	}

	if !a.confirm(fmt.Sprintf("approve %s (%d lines)?", *umi, len(target.Items))) {
		fmt.Fprintln(a.out, "cancelled, nothing sent")
		return nil
	}

	err = a.client.ApproveRequest(ctx, *umi, models.ApproveRequestBody{
		UpdatedItems: target.Items,
		Note:         *note,
		Priority:     *priority,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "approved %s\n", *umi)
	return nil
}

func (a *App) runMaterialIn(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("material-in", flag.ContinueOnError)
	mpn := fs.String("mpn", "", "backorder item MPN")
	qty := fs.Float64("qty", 0, "quantity confirmed in")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *mpn == "" {
		return fmt.Errorf("usage: material-in -mpn MPN -qty N")
	}

	items, err := a.client.ListInspectionComponents(ctx, []string{models.BackorderStatusQCCleared})
	if err != nil {
		return err
	}
	var target *models.BackorderItem
	for i := range items {
		if items[i].MPN == *mpn {
			target = &items[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no QC-cleared backorder item for %s", *mpn)
	}

	if !a.confirm(fmt.Sprintf("confirm %g of %s into stores?", *qty, *mpn)) {
		fmt.Fprintln(a.out, "cancelled, nothing sent")
		return nil
	}
	if err := a.client.MaterialIn(ctx, *target, *qty); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "material in recorded for %s\n", *mpn)
	return nil
}

func (a *App) runReturn(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("return", flag.ContinueOnError)
	umi := fs.String("umi", "", "UMI the return belongs to")
	componentID := fs.String("component", "", "component id")
	qty := fs.Float64("qty", 0, "return quantity")
	reason := fs.String("reason", "", "reason for return")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *umi == "" || *componentID == "" {
		return fmt.Errorf("usage: return -umi UMI -component C-N -qty N -reason ...")
	}

	item := models.ReturnItem{
		UMI:         *umi,
		ComponentID: *componentID,
		ReturnQty:   *qty,
		Reason:      *reason,
	}
	if !a.confirm(fmt.Sprintf("file return of %g x %s?", *qty, *componentID)) {
		fmt.Fprintln(a.out, "cancelled, nothing sent")
		return nil
	}
	if err := a.client.SubmitReturnForm(ctx, []models.ReturnItem{item}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "return submitted")
	return nil
}

func (a *App) runVendors(ctx context.Context, _ []string) error {
	vendors, err := a.client.ListVendors(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GSTIN\tNAME\tPAN\tCONTACT\tPHONE\tEMAIL")
	for _, v := range vendors {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.GSTIN, v.Name, v.PAN, v.ContactPersonName, v.ContactNo, v.EmailID)
	}
	return w.Flush()
}

func (a *App) runVendorSave(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("vendor-save", flag.ContinueOnError)
	v := models.Vendor{}
	fs.StringVar(&v.GSTIN, "gstin", "", "GSTIN (natural key)")
	fs.StringVar(&v.Name, "name", "", "vendor name")
	fs.StringVar(&v.Address, "address", "", "address")
	fs.StringVar(&v.PAN, "pan", "", "PAN")
	fs.StringVar(&v.ContactPersonName, "contact", "", "contact person")
	fs.StringVar(&v.ContactNo, "phone", "", "contact number")
	fs.StringVar(&v.EmailID, "email", "", "email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.client.UpsertVendor(ctx, v); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "vendor %s saved\n", v.GSTIN)
	return nil
}

func (a *App) runShortage(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("shortage", flag.ContinueOnError)
	assembly := fs.String("assembly", "", "assembly code")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *assembly == "" {
		return fmt.Errorf("usage: shortage -assembly CODE")
	}

	lines, err := a.client.ListBOM(ctx, *assembly)
	if err != nil {
		return err
	}
	report := shortage.Calculate(*assembly, lines)

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MPN\tDESCRIPTION\tREQUIRED\tON HAND\tON ORDER\tSHORT")
	for _, l := range report.Lines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			l.MPN, l.Description, l.RequiredQty, l.OnHandQty, l.OnOrderQty, l.Shortage)
	}
	w.Flush()
	fmt.Fprintf(a.out, "%d of %d lines short, total shortfall %s\n",
		report.ShortLines, len(report.Lines), report.TotalShort)
	return nil
}

func (a *App) runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", "pdf", "pdf or xlsx")
	out := fs.String("out", "", "output file (default purchase-orders.<format>)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	orders, err := a.client.ListPurchaseOrders(ctx)
	if err != nil {
		return err
	}

	var raw []byte
	switch *format {
	case "pdf":
		raw, err = export.PurchaseOrdersPDF(orders, timeutil.Now())
	case "xlsx":
		raw, err = export.PurchaseOrdersXLSX(orders)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = "purchase-orders." + *format
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "wrote %s (%d bytes)\n", path, len(raw))
	return nil
}
